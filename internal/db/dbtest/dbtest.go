// Package dbtest provides throwaway databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"complaintdesk/internal/db"
)

// Open returns a migrated in-memory SQLite database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}
