package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFiles(t *testing.T) *FileService {
	verify := func(_ context.Context, secret string) bool { return secret == "hunter2" }
	return NewFileService(setupTestDB(t), nopLogger(), fixedClock, verify)
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"report.pdf":     "pdf",
		"archive.tar.gz": "gz",
		"Makefile":       "Makefile",
		".env":           "env",
		"trailing.":      "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestStoreAndFetchFile(t *testing.T) {
	svc := newFiles(t)
	ctx := context.Background()

	payload := []byte{0x00, 0xff, 0x10, 'h', 'i', 0x00}
	id, err := svc.StoreFile(ctx, "scan.png", payload)
	require.NoError(t, err)

	f, err := svc.FetchFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "scan.png", f.Name)
	assert.Equal(t, "png", f.Extension)
	assert.EqualValues(t, len(payload), f.Size)
	assert.True(t, bytes.Equal(payload, f.Data))
	assert.True(t, f.UploadedAt.Equal(fixedNow))
}

func TestStoreFile_StripsDirectories(t *testing.T) {
	svc := newFiles(t)
	id, err := svc.StoreFile(context.Background(), "../../etc/passwd", []byte("x"))
	require.NoError(t, err)

	f, err := svc.FetchFile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "passwd", f.Name)
	assert.Equal(t, "passwd", f.Extension)
}

func TestStoreFile_EmptyName(t *testing.T) {
	svc := newFiles(t)
	_, err := svc.StoreFile(context.Background(), " ", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFetchFile_NotFound(t *testing.T) {
	svc := newFiles(t)
	_, err := svc.FetchFile(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMetadata(t *testing.T) {
	svc := newFiles(t)
	ctx := context.Background()

	first, err := svc.StoreFile(ctx, "a.txt", []byte("aaa"))
	require.NoError(t, err)
	second, err := svc.StoreFile(ctx, "b.txt", []byte("bb"))
	require.NoError(t, err)

	infos, err := svc.ListMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, second, infos[0].ID, "newest first")
	assert.Equal(t, first, infos[1].ID)
	assert.EqualValues(t, 3, infos[1].Size)
}

func TestPurgeAll(t *testing.T) {
	svc := newFiles(t)
	ctx := context.Background()

	_, _ = svc.StoreFile(ctx, "a.txt", []byte("a"))
	_, _ = svc.StoreFile(ctx, "b.txt", []byte("b"))

	_, err := svc.PurgeAll(ctx, "wrong")
	assert.ErrorIs(t, err, ErrWrongCredential)
	_, err = svc.PurgeAll(ctx, "")
	assert.ErrorIs(t, err, ErrWrongCredential)

	infos, _ := svc.ListMetadata(ctx)
	assert.Len(t, infos, 2, "wrong credential must not delete")

	n, err := svc.PurgeAll(ctx, "hunter2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	infos, _ = svc.ListMetadata(ctx)
	assert.Empty(t, infos)
}
