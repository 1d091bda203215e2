package model

import (
	"time"

	"gorm.io/datatypes"
)

type EvaluationStatus string

const (
	StatusPending    EvaluationStatus = "PENDING"
	StatusProcessing EvaluationStatus = "PROCESSING"
	StatusCompleted  EvaluationStatus = "COMPLETED"
	StatusFailed     EvaluationStatus = "FAILED"
)

type EvaluationKind string

const (
	KindWriting  EvaluationKind = "writing"
	KindSpeaking EvaluationKind = "speaking"
)

const (
	CriterionTaskAchievement   = "task_achievement"
	CriterionCoherenceCohesion = "coherence_cohesion"
	CriterionFluencyCoherence  = "fluency_coherence"
	CriterionLexicalResource   = "lexical_resource"
	CriterionGrammaticalRange  = "grammatical_range"
	CriterionPronunciation     = "pronunciation"
)

// Criteria lists the four rubric criteria graded for the kind, in display order.
func (k EvaluationKind) Criteria() []string {
	switch k {
	case KindWriting:
		return []string{CriterionTaskAchievement, CriterionCoherenceCohesion, CriterionLexicalResource, CriterionGrammaticalRange}
	case KindSpeaking:
		return []string{CriterionFluencyCoherence, CriterionLexicalResource, CriterionGrammaticalRange, CriterionPronunciation}
	}
	return nil
}

func (k EvaluationKind) Valid() bool {
	return k == KindWriting || k == KindSpeaking
}

// EvaluationState is the job lifecycle shared by writing and speaking jobs.
// AttemptCount counts entries into PROCESSING, FailureCount counts failed runs.
// Terminal marks a FAILED job that must not be claimed again automatically.
type EvaluationState struct {
	Status       EvaluationStatus `json:"status" gorm:"not null;default:'PENDING';index"`
	AttemptCount int              `json:"attempt_count" gorm:"not null;default:0"`
	FailureCount int              `json:"failure_count" gorm:"not null;default:0"`
	Terminal     bool             `json:"terminal" gorm:"not null;default:false"`
	ErrorMessage string           `json:"error_message,omitempty" gorm:"type:text"`
	Feedback     string           `json:"feedback,omitempty" gorm:"type:text"`
	// CriterionFeedback maps criterion name to its comment.
	CriterionFeedback datatypes.JSONType[map[string]string] `json:"criterion_feedback"`
	OverallBand       *float64                              `json:"overall_band"`
	TokensUsed        int                                   `json:"tokens_used"`
	SubmittedAt       time.Time                             `json:"submitted_at"`
	EvaluatedAt       *time.Time                            `json:"evaluated_at"`
}

// WritingAttempt is the evaluation job for one essay task of an attempt.
type WritingAttempt struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	AttemptID         uint            `json:"attempt_id" gorm:"not null;uniqueIndex:idx_writing_attempt_task"`
	TaskID            uint            `json:"task_id" gorm:"not null;uniqueIndex:idx_writing_attempt_task"`
	Task              *WritingTask    `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Content           string          `json:"content" gorm:"type:text;not null"`
	WordCount         int             `json:"word_count"`
	State             EvaluationState `json:"state" gorm:"embedded"`
	TaskAchievement   *float64        `json:"task_achievement"`
	CoherenceCohesion *float64        `json:"coherence_cohesion"`
	LexicalResource   *float64        `json:"lexical_resource"`
	GrammaticalRange  *float64        `json:"grammatical_range"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (w *WritingAttempt) Criteria() map[string]*float64 {
	return map[string]*float64{
		CriterionTaskAchievement:   w.TaskAchievement,
		CriterionCoherenceCohesion: w.CoherenceCohesion,
		CriterionLexicalResource:   w.LexicalResource,
		CriterionGrammaticalRange:  w.GrammaticalRange,
	}
}

func (w *WritingAttempt) SetCriteria(scores map[string]float64) {
	w.TaskAchievement = scorePtr(scores, CriterionTaskAchievement)
	w.CoherenceCohesion = scorePtr(scores, CriterionCoherenceCohesion)
	w.LexicalResource = scorePtr(scores, CriterionLexicalResource)
	w.GrammaticalRange = scorePtr(scores, CriterionGrammaticalRange)
}

func scorePtr(scores map[string]float64, name string) *float64 {
	v, ok := scores[name]
	if !ok {
		return nil
	}
	return &v
}
