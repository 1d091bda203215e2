package repository

import (
	"context"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	Upsert(ctx context.Context, answer *model.Answer) error
	FindByAttempt(ctx context.Context, attemptID uint, questionIDs []uint) (map[uint]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Upsert writes the answer for (attempt, question), replacing the response
// and the derived judgement of an earlier save.
func (r *answerRepository) Upsert(ctx context.Context, answer *model.Answer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"response", "is_correct", "score", "weight", "updated_at"}),
	}).Create(answer).Error
}

// FindByAttempt returns the answers of an attempt keyed by question ID,
// limited to questionIDs.
func (r *answerRepository) FindByAttempt(ctx context.Context, attemptID uint, questionIDs []uint) (map[uint]model.Answer, error) {
	byQuestion := make(map[uint]model.Answer, len(questionIDs))
	if len(questionIDs) == 0 {
		return byQuestion, nil
	}
	var answers []model.Answer
	err := r.db.WithContext(ctx).
		Where("attempt_id = ? AND question_id IN ?", attemptID, questionIDs).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	return byQuestion, nil
}
