package repository

import (
	"context"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SectionResultRepository interface {
	Upsert(ctx context.Context, result *model.SectionResult) error
	FindByAttempt(ctx context.Context, attemptID uint) ([]model.SectionResult, error)
}

type sectionResultRepository struct {
	db *gorm.DB
}

func NewSectionResultRepository(db *gorm.DB) SectionResultRepository {
	return &sectionResultRepository{db: db}
}

func (r *sectionResultRepository) Upsert(ctx context.Context, result *model.SectionResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "section"}},
		DoUpdates: clause.AssignmentColumns([]string{"correct", "total", "band", "breakdown", "updated_at"}),
	}).Create(result).Error
}

func (r *sectionResultRepository) FindByAttempt(ctx context.Context, attemptID uint) ([]model.SectionResult, error) {
	var results []model.SectionResult
	err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).Order("section ASC").Find(&results).Error
	return results, err
}
