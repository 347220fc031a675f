package db

import (
	"fmt"

	"gorm.io/gorm"

	"complaintdesk/internal/logger"
	"complaintdesk/internal/model"
)

// Models lists every table in creation order. Complaints reference students,
// so they come last.
func Models() []interface{} {
	return []interface{}{
		&model.Student{},
		&model.Teacher{},
		&model.Admin{},
		&model.Complaint{},
	}
}

// Migrate creates or updates all tables.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table. Missing tables are logged and skipped.
func Reset(gormDB *gorm.DB) {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := gormDB.Migrator().DropTable(models[i]); err != nil {
			logger.Warn().Err(err).Msg("drop table failed (may not exist)")
		}
	}
}
