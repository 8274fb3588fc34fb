package service

import (
	"path/filepath"
	"testing"
	"time"

	"daybook/internal/config"
	"daybook/internal/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	bcryptCost = 4
}

// setupTestDB opens a fresh migrated sqlite database in a temp dir.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

func fixedClock() time.Time { return fixedNow }

func nopLogger() *zap.Logger { return zap.NewNop() }
