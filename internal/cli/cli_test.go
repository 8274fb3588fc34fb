package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"daybook/internal/config"
	"daybook/internal/database"
	"daybook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dbPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "daybook-cli")
	if err != nil {
		panic(err)
	}
	dbPath = filepath.Join(dir, "cli.db")

	os.Setenv("DAYBOOK_DATABASE_PATH", dbPath)
	os.Setenv("DAYBOOK_AUTH_MODE", "db")
	os.Setenv("DAYBOOK_AUTH_SESSION_SECRET", "secret")
	os.Setenv("DAYBOOK_AUTH_OWNER_ID", "owner")
	os.Setenv("DAYBOOK_LOG_LEVEL", "error")

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "notify", "user", "backup", "secret"} {
		assert.True(t, names[want], want)
	}

	sub := map[string]bool{}
	for _, c := range notifyCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"task-reminder": true, "login-reminder": true, "clear-push": true}, sub)
}

func TestMigrateAndUserSet(t *testing.T) {
	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	out, err = execute(t, "user", "set", "--id", "owner", "--password", "correct horse")
	require.NoError(t, err)
	assert.Contains(t, out, "password set for owner")

	_, err = execute(t, "user", "set", "--id", "owner", "--password", "short")
	assert.Error(t, err)

	db, err := database.Init(config.DatabaseConfig{Path: dbPath})
	require.NoError(t, err)
	defer database.Close(db)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "owner", users[0].UserID)
	assert.NotEqual(t, "correct horse", users[0].PasswordHash)
}

func TestBackupCommand(t *testing.T) {
	_, err := execute(t, "migrate")
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := execute(t, "backup", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(strings.TrimSpace(out)))

	_, err = os.Stat(strings.TrimSpace(out))
	assert.NoError(t, err)
}

func TestSecretCommand(t *testing.T) {
	out, err := execute(t, "secret", "-n", "24")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 24)
}

func TestNotifyWithoutCredentials(t *testing.T) {
	_, err := execute(t, "notify", "login-reminder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
