package model

import (
	"time"

	"gorm.io/gorm"
)

// ExamAttempt is one candidate sitting of a Test. Section scores stay nil
// until the section is scored. OverallScore is derived from them.
type ExamAttempt struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	TestID         uint           `json:"test_id" gorm:"not null;index"`
	Test           *Test          `json:"test,omitempty" gorm:"foreignKey:TestID"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	ListeningScore *float64       `json:"listening_score"`
	ReadingScore   *float64       `json:"reading_score"`
	WritingScore   *float64       `json:"writing_score"`
	SpeakingScore  *float64       `json:"speaking_score"`
	OverallScore   *float64       `json:"overall_score"`
	StartedAt      time.Time      `json:"started_at" gorm:"autoCreateTime"`
	Answers        []Answer       `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// SectionScores returns the four section bands in listening, reading,
// writing, speaking order.
func (a *ExamAttempt) SectionScores() []*float64 {
	return []*float64{a.ListeningScore, a.ReadingScore, a.WritingScore, a.SpeakingScore}
}

// ScoreColumn maps a section to its column on exam_attempts.
func ScoreColumn(s Section) string {
	switch s {
	case SectionListening:
		return "listening_score"
	case SectionReading:
		return "reading_score"
	case SectionWriting:
		return "writing_score"
	case SectionSpeaking:
		return "speaking_score"
	}
	return ""
}
