package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"complaintdesk/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open returns a connected GORM DB for the given driver.
//
// SQLite is a single-file store: foreign keys are switched on for the cascade
// from students to complaints, and the pool is capped at one connection so
// writers are serialised by the pool rather than failing with SQLITE_BUSY.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(withSQLiteForeignKeys(dsn))
	case DriverMySQL:
		dialector = mysql.Open(withMySQLFoundRows(dsn))
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(zerologWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == DriverSQLite || driver == "" {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return gormDB, nil
}

// Close releases the underlying connection pool.
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// withMySQLFoundRows makes UPDATE report matched rows rather than changed rows,
// so setting a complaint to its current status is not mistaken for a miss.
func withMySQLFoundRows(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&clientFoundRows=true"
	}
	return dsn + "?clientFoundRows=true"
}

// zerologWriter adapts GORM's Printf-style logger to zerolog.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	logger.Warn().Str("component", "gorm").Msgf(format, args...)
}
