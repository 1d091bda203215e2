package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ExamAttemptResponse struct {
	ID             uint      `json:"id"`
	TestID         uint      `json:"test_id"`
	UserID         uint      `json:"user_id"`
	ListeningScore *float64  `json:"listening_score"`
	ReadingScore   *float64  `json:"reading_score"`
	WritingScore   *float64  `json:"writing_score"`
	SpeakingScore  *float64  `json:"speaking_score"`
	OverallScore   *float64  `json:"overall_score"`
	StartedAt      time.Time `json:"started_at"`
}

type AnswerResult struct {
	QuestionID uint    `json:"question_id"`
	IsCorrect  bool    `json:"is_correct"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight"`
}

type Accuracy struct {
	Earned   float64 `json:"earned"`
	Possible float64 `json:"possible"`
	Rate     float64 `json:"rate"`
}

type SectionResultResponse struct {
	AttemptID    uint                `json:"attempt_id"`
	Section      string              `json:"section"`
	Correct      int                 `json:"correct"`
	Total        int                 `json:"total"`
	Band         float64             `json:"band"`
	ByType       map[string]Accuracy `json:"by_type"`
	ByPart       map[int]Accuracy    `json:"by_part"`
	OverallScore *float64            `json:"overall_score"`
}

type OverallScoreResponse struct {
	AttemptID    uint     `json:"attempt_id"`
	OverallScore *float64 `json:"overall_score"`
	// Complete is true once all four sections carry a band.
	Complete bool `json:"complete"`
}

type Finding struct {
	Section      string  `json:"section"`
	Kind         string  `json:"kind"`
	QuestionType string  `json:"question_type,omitempty"`
	Accuracy     float64 `json:"accuracy"`
	Tip          string  `json:"tip,omitempty"`
}

type AnalysisResponse struct {
	AttemptID  uint      `json:"attempt_id"`
	Strengths  []Finding `json:"strengths"`
	Weaknesses []Finding `json:"weaknesses"`
}
