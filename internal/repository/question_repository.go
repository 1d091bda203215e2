package repository

import (
	"context"
	"sort"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindBySection(ctx context.Context, testID uint, section model.Section) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).Preload("Group").Preload("Choices").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// FindBySection returns the questions of one section ordered by part, then position.
func (r *questionRepository) FindBySection(ctx context.Context, testID uint, section model.Section) ([]model.Question, error) {
	groups := r.db.Model(&model.QuestionGroup{}).
		Select("id").
		Where("test_id = ? AND section = ?", testID, section)

	var questions []model.Question
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Choices").
		Where("group_id IN (?)", groups).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Part() != questions[j].Part() {
			return questions[i].Part() < questions[j].Part()
		}
		return questions[i].Position < questions[j].Position
	})
	return questions, nil
}
