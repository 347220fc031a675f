package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"complaintdesk/docs"
	"complaintdesk/internal/auth"
	"complaintdesk/internal/cache"
	"complaintdesk/internal/config"
	"complaintdesk/internal/db"
	"complaintdesk/internal/handler"
	"complaintdesk/internal/logger"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/router"
	"complaintdesk/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title College Complaint Desk API
// @version 1.0
// @description Complaint management for students, teachers and administrators.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if cfg.JWTSecret == "change-me" {
		logger.Warn().Msg("JWT_SECRET is not set; using the built-in development secret")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			logger.Warn().Err(err).Msg("database close")
		}
	}()

	if cfg.ResetDB {
		logger.Warn().Msg("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	var snapshots service.SnapshotCache
	if cacheClient != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, statistics cache degrades to misses")
		} else {
			logger.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
		}
		cancel()
		snapshots = cacheClient
	}

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(gormDB)
	teacherRepo := repository.NewTeacherRepository(gormDB)
	adminRepo := repository.NewAdminRepository(gormDB)
	complaintRepo := repository.NewComplaintRepository(gormDB)

	// Initialize auth components
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Initialize services
	authService := service.NewAuthService(studentRepo, teacherRepo, adminRepo, tokens, hasher, cfg.AdminRegistrationKey)
	complaintService := service.NewComplaintService(studentRepo, complaintRepo, snapshots)
	statisticsService := service.NewStatisticsService(complaintRepo, snapshots, cfg.StatsCacheTTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		tokens,
		handler.NewStudentHandler(authService),
		handler.NewTeacherHandler(authService, complaintService),
		handler.NewAdminHandler(authService, complaintService, statisticsService),
		handler.NewComplaintHandler(complaintService),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info().Str("url", swaggerURL(cfg)).Msg("swagger documentation available")

	addr := ":" + cfg.ServerPort
	go func() {
		logger.Info().Str("addr", addr).Str("db_driver", cfg.DBDriver).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
