package repository

import (
	"context"

	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
)

// TestRepository reads authored exam content. Writes exist only for seeding.
type TestRepository interface {
	Create(ctx context.Context, test *model.Test) error
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	FindWritingTask(ctx context.Context, id uint) (*model.WritingTask, error)
	FindSpeakingPrompts(ctx context.Context, testID uint) ([]model.SpeakingPrompt, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	// Nested groups, questions, choices, tasks and prompts are created with the test.
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindWritingTask(ctx context.Context, id uint) (*model.WritingTask, error) {
	var task model.WritingTask
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *testRepository) FindSpeakingPrompts(ctx context.Context, testID uint) ([]model.SpeakingPrompt, error) {
	var prompts []model.SpeakingPrompt
	err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("part_number ASC, position ASC").
		Find(&prompts).Error
	return prompts, err
}
