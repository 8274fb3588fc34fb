package service

import (
	"context"
	"strings"
	"time"

	"daybook/internal/models"
	"daybook/internal/util"

	"gorm.io/gorm"
)

// Activity is one decrypted audit log row.
type Activity struct {
	ID        uint
	UserID    string
	Method    string
	Path      string
	Action    string
	Status    int
	IP        string
	UserAgent string
	CreatedAt time.Time
}

// ActivityQuery filters the audit log. Zero values mean no filter.
type ActivityQuery struct {
	Start    time.Time
	End      time.Time // exclusive
	Keyword  string
	Page     int
	PageSize int
}

// ActivityPage is one page of results plus the total match count.
type ActivityPage struct {
	Items    []Activity
	Total    int
	Page     int
	PageSize int
}

// ActivityService reads the audit log written by the audit middleware.
type ActivityService struct {
	db         *gorm.DB
	encryptKey string
}

func NewActivityService(db *gorm.DB, encryptKey string) *ActivityService {
	return &ActivityService{db: db, encryptKey: encryptKey}
}

// List returns matching rows newest-first. Path and action are stored
// encrypted, so the keyword is matched after decryption.
func (s *ActivityService) List(ctx context.Context, q ActivityQuery) (*ActivityPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}

	base := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if !q.Start.IsZero() {
		base = base.Where("created_at >= ?", q.Start)
	}
	if !q.End.IsZero() {
		base = base.Where("created_at < ?", q.End)
	}

	var rows []models.AuditLog
	if err := base.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list activity", err)
	}

	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	items := make([]Activity, 0, len(rows))
	for i := range rows {
		a := s.decrypt(&rows[i])
		if keyword != "" &&
			!strings.Contains(strings.ToLower(a.Path), keyword) &&
			!strings.Contains(strings.ToLower(a.Action), keyword) {
			continue
		}
		items = append(items, a)
	}

	page := &ActivityPage{Total: len(items), Page: q.Page, PageSize: q.PageSize}
	start := (q.Page - 1) * q.PageSize
	if start >= len(items) {
		page.Items = []Activity{}
		return page, nil
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	page.Items = items[start:end]
	return page, nil
}

func (s *ActivityService) decrypt(l *models.AuditLog) Activity {
	return Activity{
		ID:        l.ID,
		UserID:    l.UserID,
		Method:    l.Method,
		Path:      util.DecryptString(s.encryptKey, l.PathEnc),
		Action:    util.DecryptString(s.encryptKey, l.ActionEnc),
		Status:    l.Status,
		IP:        l.IP,
		UserAgent: l.UserAgent,
		CreatedAt: l.CreatedAt,
	}
}
