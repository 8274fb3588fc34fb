package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"daybook/internal/models"
	"daybook/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityList_DecryptsAndFilters(t *testing.T) {
	db := setupTestDB(t)
	const key = "audit-key"

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	paths := []string{"/tasks/add", "/home/add_transaction", "/upload_files"}
	for i, p := range paths {
		enc, err := util.EncryptString(key, p)
		require.NoError(t, err)
		act, err := util.EncryptString(key, "POST "+p)
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.AuditLog{
			UserID:    "owner",
			Method:    "POST",
			PathEnc:   enc,
			ActionEnc: act,
			Status:    303,
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}).Error)
	}

	svc := NewActivityService(db, key)
	ctx := context.Background()

	page, err := svc.List(ctx, ActivityQuery{})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	assert.Equal(t, "/upload_files", page.Items[0].Path)
	assert.Equal(t, "POST /tasks/add", page.Items[2].Action)

	page, err = svc.List(ctx, ActivityQuery{Keyword: "TRANSACTION"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "/home/add_transaction", page.Items[0].Path)

	page, err = svc.List(ctx, ActivityQuery{Start: base.Add(24 * time.Hour), End: base.Add(48 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "/home/add_transaction", page.Items[0].Path)
}

func TestActivityList_Paging(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.AuditLog{
			UserID:  "owner",
			Method:  "GET",
			PathEnc: fmt.Sprintf("/p/%d", i),
		}).Error)
	}

	svc := NewActivityService(db, "")
	page, err := svc.List(context.Background(), ActivityQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Items, 10)

	page, err = svc.List(context.Background(), ActivityQuery{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = svc.List(context.Background(), ActivityQuery{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 20, page.PageSize)
}
