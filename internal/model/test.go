package model

import (
	"time"

	"gorm.io/gorm"
)

// Test is a full mock exam. Content is authored elsewhere and is read-only here.
type Test struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Title           string           `json:"title" gorm:"not null;uniqueIndex"`
	Description     string           `json:"description,omitempty"`
	QuestionGroups  []QuestionGroup  `json:"question_groups,omitempty" gorm:"foreignKey:TestID"`
	WritingTasks    []WritingTask    `json:"writing_tasks,omitempty" gorm:"foreignKey:TestID"`
	SpeakingPrompts []SpeakingPrompt `json:"speaking_prompts,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

type WritingTask struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TestID     uint      `json:"test_id" gorm:"not null;index"`
	TaskNumber int       `json:"task_number" gorm:"not null"` // 1 or 2
	Prompt     string    `json:"prompt" gorm:"type:text;not null"`
	MinWords   int       `json:"min_words"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SpeakingPrompt struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TestID     uint      `json:"test_id" gorm:"not null;index"`
	PartNumber int       `json:"part_number" gorm:"not null"`
	Position   int       `json:"position" gorm:"not null"`
	Prompt     string    `json:"prompt" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
