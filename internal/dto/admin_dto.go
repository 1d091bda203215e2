package dto

import "time"

// EvaluationJobResponse is the public view of a writing or speaking job.
type EvaluationJobResponse struct {
	ID                uint                `json:"id"`
	Kind              string              `json:"kind"`
	AttemptID         uint                `json:"attempt_id"`
	TaskID            uint                `json:"task_id,omitempty"`
	Status            string              `json:"status"`
	AttemptCount      int                 `json:"attempt_count"`
	FailureCount      int                 `json:"failure_count"`
	Terminal          bool                `json:"terminal"`
	RetryPending      bool                `json:"retry_pending"`
	ErrorMessage      string              `json:"error_message,omitempty"`
	Criteria          map[string]*float64 `json:"criteria"`
	OverallBand       *float64            `json:"overall_band"`
	Feedback          string              `json:"feedback,omitempty"`
	CriterionFeedback map[string]string   `json:"criterion_feedback,omitempty"`
	WordCount         int                 `json:"word_count,omitempty"`
	TotalPrompts      int                 `json:"total_prompts,omitempty"`
	AnsweredPrompts   int                 `json:"answered_prompts,omitempty"`
	CompletionRate    float64             `json:"completion_rate,omitempty"`
	PenaltyApplied    bool                `json:"penalty_applied"`
	PenaltyMultiplier *float64            `json:"penalty_multiplier,omitempty"`
	IsPartial         bool                `json:"is_partial"`
	TokensUsed        int                 `json:"tokens_used"`
	SubmittedAt       time.Time           `json:"submitted_at"`
	EvaluatedAt       *time.Time          `json:"evaluated_at,omitempty"`
}

type FailedJobsResponse struct {
	Kind  string                  `json:"kind"`
	Count int                     `json:"count"`
	Jobs  []EvaluationJobResponse `json:"jobs"`
}
