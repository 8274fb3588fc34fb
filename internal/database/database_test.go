package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"daybook/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "daybook.db")

	db, err := Init(config.DatabaseConfig{Path: path})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "sessions", "tasks", "ledger_entries", "stored_files", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.True(t, db.Migrator().HasColumn("ledger_entries", "ippb"))
	assert.True(t, db.Migrator().HasColumn("ledger_entries", "sbi"))
}

func TestInit_ConnectionPragmas(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "pragma.db")})
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	check := func() {
		var timeout, fk int
		require.NoError(t, db.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
		assert.Equal(t, 5000, timeout)
		assert.Equal(t, 1, fk)
	}
	check()

	// force the pool to open a fresh connection
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(1)
	check()
}

func TestBackup(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "live.db")})
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, db.Exec("INSERT INTO tasks (text, complete, date) VALUES ('keep me', false, '01-01-2025 10:00')").Error)

	dir := filepath.Join(t.TempDir(), "backups")
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	path, err := Backup(context.Background(), db, dir, now)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "daybook-20250314-093000-")

	copyDB, err := Init(config.DatabaseConfig{Path: path})
	require.NoError(t, err)
	defer Close(copyDB)

	var text string
	require.NoError(t, copyDB.Raw("SELECT text FROM tasks").Scan(&text).Error)
	assert.Equal(t, "keep me", text)
}
