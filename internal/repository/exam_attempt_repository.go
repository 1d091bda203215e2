package repository

import (
	"context"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamAttemptRepository interface {
	Create(ctx context.Context, attempt *model.ExamAttempt) error
	FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error)
	// Lock takes a row lock on the attempt until the surrounding transaction
	// ends. Score updates lock first so they are applied one at a time.
	Lock(ctx context.Context, id uint) (*model.ExamAttempt, error)
	SetSectionScore(ctx context.Context, id uint, section model.Section, band *float64) error
	SetOverallScore(ctx context.Context, id uint, overall *float64) error
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) ExamAttemptRepository
}

type examAttemptRepository struct {
	db *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: db}
}

func (r *examAttemptRepository) WithTx(tx *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: tx}
}

func (r *examAttemptRepository) Create(ctx context.Context, attempt *model.ExamAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *examAttemptRepository) FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *examAttemptRepository) Lock(ctx context.Context, id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *examAttemptRepository) SetSectionScore(ctx context.Context, id uint, section model.Section, band *float64) error {
	return r.updateColumn(ctx, id, model.ScoreColumn(section), band)
}

func (r *examAttemptRepository) SetOverallScore(ctx context.Context, id uint, overall *float64) error {
	return r.updateColumn(ctx, id, "overall_score", overall)
}

func (r *examAttemptRepository) updateColumn(ctx context.Context, id uint, column string, value *float64) error {
	res := r.db.WithContext(ctx).Model(&model.ExamAttempt{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
