package testutil

import (
	"fmt"
	"testing"

	"warbler/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory SQLite database unique to the
// test. Foreign keys are switched on so referential-integrity failures
// behave like postgres.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache database alive for the
	// whole test and sidesteps SQLite write locking.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, model.Migrate(db))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}
