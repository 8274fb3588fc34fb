package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Backup writes a consistent copy of the live database into dir and returns
// the new file's path. Writers are not blocked while it runs.
func Backup(ctx context.Context, db *gorm.DB, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("daybook-%s-%s.db", now.Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)
	if err := db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	return path, nil
}
