package service

import (
	"context"
	"fmt"
	"strings"

	"daybook/internal/models"
	"daybook/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxTaskLen = 500

// TaskService is the flat to-do list.
type TaskService struct {
	db    *gorm.DB
	log   *zap.Logger
	clock Clock
}

func NewTaskService(db *gorm.DB, log *zap.Logger, clock Clock) *TaskService {
	return &TaskService{db: db, log: log, clock: clock}
}

// AddTask stores a new pending task stamped with the current date.
func (s *TaskService) AddTask(ctx context.Context, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if err := util.ValidateText(text, maxTaskLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	task := models.Task{
		Text: text,
		Date: s.clock().Format(displayDateTime),
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, storageErr("add task", err)
	}
	return &task, nil
}

// ListPending returns tasks not yet completed, oldest first.
func (s *TaskService) ListPending(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, false)
}

// ListCompleted returns completed tasks, oldest first.
func (s *TaskService) ListCompleted(ctx context.Context) ([]models.Task, error) {
	return s.list(ctx, true)
}

func (s *TaskService) list(ctx context.Context, complete bool) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).
		Where("complete = ?", complete).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// MarkComplete completes every task in ids with a single update.
// An empty set does nothing.
func (s *TaskService) MarkComplete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id IN ?", ids).
		Update("complete", true)
	if res.Error != nil {
		return 0, storageErr("complete tasks", res.Error)
	}
	return res.RowsAffected, nil
}

// PurgeCompleted deletes every completed task.
func (s *TaskService) PurgeCompleted(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("complete = ?", true).
		Delete(&models.Task{})
	if res.Error != nil {
		return 0, storageErr("purge tasks", res.Error)
	}
	s.log.Info("completed tasks purged", zap.Int64("count", res.RowsAffected))
	return res.RowsAffected, nil
}
