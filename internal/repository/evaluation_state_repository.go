package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
)

// Failure describes a failed run. Retryable and MaxAttempts decide whether
// the job becomes terminal.
type Failure struct {
	Message     string
	Retryable   bool
	MaxAttempts int
	// Partial is only stored for speaking jobs.
	Partial bool
	// TokensUsed is what the failed run spent before giving up.
	TokensUsed int
}

// EvaluationStateRepository moves writing and speaking jobs through their
// lifecycle with conditional updates so that concurrent workers cannot both
// claim the same job.
type EvaluationStateRepository interface {
	// Claim moves a PENDING or retryable FAILED job to PROCESSING. It reports
	// false when the job is not claimable.
	Claim(ctx context.Context, kind model.EvaluationKind, id uint, maxAttempts int) (bool, error)
	// MarkFailed records a failed run of a PROCESSING job and returns its new state.
	MarkFailed(ctx context.Context, kind model.EvaluationKind, id uint, f Failure) (model.EvaluationState, error)
	// Reset gives a FAILED job a fresh attempt budget and puts it back to PENDING.
	Reset(ctx context.Context, kind model.EvaluationKind, id uint) (bool, error)
}

type evaluationStateRepository struct {
	db *gorm.DB
}

func NewEvaluationStateRepository(db *gorm.DB) EvaluationStateRepository {
	return &evaluationStateRepository{db: db}
}

func jobModel(kind model.EvaluationKind) (interface{}, error) {
	switch kind {
	case model.KindWriting:
		return &model.WritingAttempt{}, nil
	case model.KindSpeaking:
		return &model.SpeakingAttempt{}, nil
	}
	return nil, fmt.Errorf("unknown evaluation kind %q", kind)
}

func (r *evaluationStateRepository) Claim(ctx context.Context, kind model.EvaluationKind, id uint, maxAttempts int) (bool, error) {
	m, err := jobModel(kind)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Model(m).
		Where("id = ? AND status IN ? AND terminal = ? AND failure_count < ?",
			id, []string{string(model.StatusPending), string(model.StatusFailed)}, false, maxAttempts).
		Updates(map[string]interface{}{
			"status":        model.StatusProcessing,
			"attempt_count": gorm.Expr("attempt_count + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *evaluationStateRepository) MarkFailed(ctx context.Context, kind model.EvaluationKind, id uint, f Failure) (model.EvaluationState, error) {
	var state model.EvaluationState
	m, err := jobModel(kind)
	if err != nil {
		return state, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(m).
			Select("status", "attempt_count", "failure_count", "terminal", "tokens_used").
			Where("id = ?", id).
			Scan(&state)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		now := time.Now()
		state.Status = model.StatusFailed
		state.FailureCount++
		state.Terminal = !f.Retryable || state.FailureCount >= f.MaxAttempts
		state.ErrorMessage = f.Message
		state.EvaluatedAt = &now
		state.TokensUsed += f.TokensUsed

		updates := map[string]interface{}{
			"status":        state.Status,
			"error_message": state.ErrorMessage,
			"failure_count": state.FailureCount,
			"terminal":      state.Terminal,
			"evaluated_at":  now,
			"tokens_used":   state.TokensUsed,
		}
		if kind == model.KindSpeaking {
			updates["is_partial"] = f.Partial
		}
		return tx.Model(m).Where("id = ?", id).Updates(updates).Error
	})
	return state, err
}

func (r *evaluationStateRepository) Reset(ctx context.Context, kind model.EvaluationKind, id uint) (bool, error) {
	m, err := jobModel(kind)
	if err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).Model(m).
		Where("id = ? AND status = ?", id, string(model.StatusFailed)).
		Updates(map[string]interface{}{
			"status":        model.StatusPending,
			"failure_count": 0,
			"terminal":      false,
			"error_message": "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
