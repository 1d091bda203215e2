package repository

import (
	"context"
	"time"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WritingAttemptRepository interface {
	Create(ctx context.Context, attempt *model.WritingAttempt) error
	FindByID(ctx context.Context, id uint) (*model.WritingAttempt, error)
	FindByAttemptAndTask(ctx context.Context, attemptID, taskID uint) (*model.WritingAttempt, error)
	// FindCompletedByAttempt preloads Task so callers can tell task 1 from task 2.
	FindCompletedByAttempt(ctx context.Context, attemptID uint) ([]model.WritingAttempt, error)
	ListFailed(ctx context.Context, limit int) ([]model.WritingAttempt, error)
	Save(ctx context.Context, attempt *model.WritingAttempt) error
	// ReplacePending swaps the essay of a job that is still PENDING. It
	// reports false when the job has already left PENDING.
	ReplacePending(ctx context.Context, id uint, content string, wordCount int, submittedAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) WritingAttemptRepository
}

type writingAttemptRepository struct {
	db *gorm.DB
}

func NewWritingAttemptRepository(db *gorm.DB) WritingAttemptRepository {
	return &writingAttemptRepository{db: db}
}

func (r *writingAttemptRepository) WithTx(tx *gorm.DB) WritingAttemptRepository {
	return &writingAttemptRepository{db: tx}
}

func (r *writingAttemptRepository) Create(ctx context.Context, attempt *model.WritingAttempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

func (r *writingAttemptRepository) FindByID(ctx context.Context, id uint) (*model.WritingAttempt, error) {
	var attempt model.WritingAttempt
	if err := r.db.WithContext(ctx).Preload("Task").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *writingAttemptRepository) FindByAttemptAndTask(ctx context.Context, attemptID, taskID uint) (*model.WritingAttempt, error) {
	var attempt model.WritingAttempt
	err := r.db.WithContext(ctx).Where("attempt_id = ? AND task_id = ?", attemptID, taskID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *writingAttemptRepository) FindCompletedByAttempt(ctx context.Context, attemptID uint) ([]model.WritingAttempt, error) {
	var attempts []model.WritingAttempt
	err := r.db.WithContext(ctx).
		Preload("Task").
		Where("attempt_id = ? AND status = ?", attemptID, string(model.StatusCompleted)).
		Find(&attempts).Error
	return attempts, err
}

func (r *writingAttemptRepository) ListFailed(ctx context.Context, limit int) ([]model.WritingAttempt, error) {
	var attempts []model.WritingAttempt
	err := r.db.WithContext(ctx).
		Where("status = ?", string(model.StatusFailed)).
		Order("updated_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func (r *writingAttemptRepository) Save(ctx context.Context, attempt *model.WritingAttempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(attempt).Error
}

func (r *writingAttemptRepository) ReplacePending(ctx context.Context, id uint, content string, wordCount int, submittedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.WritingAttempt{}).
		Where("id = ? AND status = ?", id, string(model.StatusPending)).
		Updates(map[string]interface{}{
			"content":      content,
			"word_count":   wordCount,
			"submitted_at": submittedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
