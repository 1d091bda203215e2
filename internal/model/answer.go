package model

import (
	"time"
)

// Answer is unique per (attempt, question). IsCorrect, Score and Weight are
// derived and rewritten on every save.
type Answer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	AttemptID  uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question   *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Response   string    `json:"response" gorm:"type:text;not null"`
	IsCorrect  bool      `json:"is_correct"`
	Score      float64   `json:"score"`
	Weight     float64   `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
