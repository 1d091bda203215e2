package repository

import (
	"context"
	"time"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpeakingAttemptRepository interface {
	// Create stores the job together with its per-prompt answers.
	Create(ctx context.Context, attempt *model.SpeakingAttempt) error
	FindByID(ctx context.Context, id uint) (*model.SpeakingAttempt, error)
	FindByAttempt(ctx context.Context, attemptID uint) (*model.SpeakingAttempt, error)
	ListFailed(ctx context.Context, limit int) ([]model.SpeakingAttempt, error)
	Save(ctx context.Context, attempt *model.SpeakingAttempt) error
	SaveAnswer(ctx context.Context, answer *model.SpeakingAnswer) error
	// ReplacePending swaps the recordings of a job that is still PENDING.
	// It reports false when the job has already left PENDING.
	ReplacePending(ctx context.Context, id uint, answers []model.SpeakingAnswer, totalPrompts, answeredPrompts int, submittedAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) SpeakingAttemptRepository
}

type speakingAttemptRepository struct {
	db *gorm.DB
}

func NewSpeakingAttemptRepository(db *gorm.DB) SpeakingAttemptRepository {
	return &speakingAttemptRepository{db: db}
}

func (r *speakingAttemptRepository) WithTx(tx *gorm.DB) SpeakingAttemptRepository {
	return &speakingAttemptRepository{db: tx}
}

func (r *speakingAttemptRepository) Create(ctx context.Context, attempt *model.SpeakingAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// FindByID preloads answers with their prompts, in prompt order.
func (r *speakingAttemptRepository) FindByID(ctx context.Context, id uint) (*model.SpeakingAttempt, error) {
	var attempt model.SpeakingAttempt
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("speaking_answers.prompt_id ASC")
		}).
		Preload("Answers.Prompt").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *speakingAttemptRepository) FindByAttempt(ctx context.Context, attemptID uint) (*model.SpeakingAttempt, error) {
	var attempt model.SpeakingAttempt
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *speakingAttemptRepository) ListFailed(ctx context.Context, limit int) ([]model.SpeakingAttempt, error) {
	var attempts []model.SpeakingAttempt
	err := r.db.WithContext(ctx).
		Where("status = ?", string(model.StatusFailed)).
		Order("updated_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func (r *speakingAttemptRepository) Save(ctx context.Context, attempt *model.SpeakingAttempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(attempt).Error
}

func (r *speakingAttemptRepository) SaveAnswer(ctx context.Context, answer *model.SpeakingAnswer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(answer).Error
}

func (r *speakingAttemptRepository) ReplacePending(ctx context.Context, id uint, answers []model.SpeakingAnswer, totalPrompts, answeredPrompts int, submittedAt time.Time) (bool, error) {
	replaced := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.SpeakingAttempt{}).
			Where("id = ? AND status = ?", id, string(model.StatusPending)).
			Updates(map[string]interface{}{
				"total_prompts":    totalPrompts,
				"answered_prompts": answeredPrompts,
				"submitted_at":     submittedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Where("speaking_attempt_id = ?", id).Delete(&model.SpeakingAnswer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].SpeakingAttemptID = id
		}
		if len(answers) > 0 {
			if err := tx.Omit(clause.Associations).Create(&answers).Error; err != nil {
				return err
			}
		}
		replaced = true
		return nil
	})
	return replaced, err
}
