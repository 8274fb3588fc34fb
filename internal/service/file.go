package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"daybook/internal/metrics"
	"daybook/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService stores uploaded blobs in the database.
type FileService struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  Clock
	verify CredentialVerifier
}

// CredentialVerifier reports whether secret is the shared operator credential.
type CredentialVerifier func(ctx context.Context, secret string) bool

// NewFileService returns a file store whose PurgeAll is guarded by verify.
func NewFileService(db *gorm.DB, log *zap.Logger, clock Clock, verify CredentialVerifier) *FileService {
	return &FileService{db: db, log: log, clock: clock, verify: verify}
}

// Extension returns the part of name after the last dot. A name without a dot
// is returned whole.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name
	}
	return name[i+1:]
}

// StoreFile saves data under name and returns the new id.
func (s *FileService) StoreFile(ctx context.Context, name string, data []byte) (uint, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return 0, fmt.Errorf("%w: file name is empty", ErrInvalidInput)
	}
	if data == nil {
		data = []byte{}
	}

	f := models.StoredFile{
		Name:       name,
		Extension:  Extension(name),
		Size:       int64(len(data)),
		UploadedAt: s.clock(),
		Data:       data,
	}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		return 0, storageErr("store file", err)
	}

	metrics.FilesStoredBytes.Add(float64(f.Size))
	s.log.Info("file stored", zap.Uint("id", f.ID), zap.String("name", f.Name), zap.Int64("size", f.Size))
	return f.ID, nil
}

// ListMetadata returns every file without its payload, newest first.
func (s *FileService) ListMetadata(ctx context.Context) ([]models.FileInfo, error) {
	var infos []models.FileInfo
	if err := s.db.WithContext(ctx).
		Model(&models.StoredFile{}).
		Select("id", "name", "extension", "size", "uploaded_at").
		Order("uploaded_at DESC, id DESC").
		Find(&infos).Error; err != nil {
		return nil, storageErr("list files", err)
	}
	return infos, nil
}

// FetchFile returns the stored file including its payload.
func (s *FileService) FetchFile(ctx context.Context, id uint) (*models.StoredFile, error) {
	var f models.StoredFile
	err := s.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("fetch file", err)
	}
	return &f, nil
}

// PurgeAll deletes every stored file when credential matches.
func (s *FileService) PurgeAll(ctx context.Context, credential string) (int64, error) {
	if credential == "" || s.verify == nil || !s.verify(ctx, credential) {
		s.log.Warn("file purge refused: wrong credential")
		return 0, ErrWrongCredential
	}
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.StoredFile{})
	if res.Error != nil {
		return 0, storageErr("purge files", res.Error)
	}
	s.log.Info("file store purged", zap.Int64("count", res.RowsAffected))
	return res.RowsAffected, nil
}
