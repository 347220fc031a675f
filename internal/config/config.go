package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver string
	DBDSN    string
	ResetDB  bool

	RedisAddr     string
	RedisDB       int
	RedisPass     string
	StatsCacheTTL time.Duration

	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int

	// AdminRegistrationKey gates POST /api/admin/register. When empty, admin
	// registration is only open until the first admin exists.
	AdminRegistrationKey string

	CORSAllowOrigins []string
	LogLevel         string
	LogPretty        bool
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "7800"),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:                getEnv("DB_DSN", "college.db"),
		ResetDB:              getEnvBool("RESET_DB", false),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		StatsCacheTTL:        getEnvDuration("STATS_CACHE_TTL", 30*time.Second),
		JWTSecret:            getEnv("JWT_SECRET", "change-me"),
		JWTIssuer:            getEnv("JWT_ISSUER", "complaintdesk"),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 24*time.Hour),
		BcryptCost:           getEnvInt("BCRYPT_COST", 10),
		AdminRegistrationKey: os.Getenv("ADMIN_REGISTRATION_KEY"),
		CORSAllowOrigins:     getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvBool("LOG_PRETTY", false),
		SwaggerHost:          os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
