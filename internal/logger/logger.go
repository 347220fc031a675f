package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

// Config represents logger configuration.
type Config struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string
	// Pretty enables the human-readable console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

// Configure replaces the package logger and zerolog's global logger.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.RFC3339}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Get returns the configured logger.
func Get() *zerolog.Logger {
	return &defaultLogger
}

// Debug starts a debug level event.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info level event.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warn level event.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error level event.
func Error() *zerolog.Event { return defaultLogger.Error() }

// Fatal logs and exits the process.
func Fatal() *zerolog.Event { return defaultLogger.Fatal() }

// WithField returns a child logger carrying key=value.
func WithField(key string, value interface{}) zerolog.Logger {
	return defaultLogger.With().Interface(key, value).Logger()
}

func init() {
	Configure(Config{Level: "info", Output: os.Stdout})
}
