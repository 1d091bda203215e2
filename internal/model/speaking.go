package model

import (
	"time"

	"gorm.io/datatypes"
)

// SpeakingAttempt is the single evaluation job for the speaking section of an attempt.
type SpeakingAttempt struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	AttemptID        uint             `json:"attempt_id" gorm:"not null;uniqueIndex"`
	State            EvaluationState  `json:"state" gorm:"embedded"`
	FluencyCoherence *float64         `json:"fluency_coherence"`
	LexicalResource  *float64         `json:"lexical_resource"`
	GrammaticalRange *float64         `json:"grammatical_range"`
	Pronunciation    *float64         `json:"pronunciation"`
	TotalPrompts     int              `json:"total_prompts"`
	AnsweredPrompts  int              `json:"answered_prompts"`
	PenaltyApplied   *float64         `json:"penalty_applied"`
	IsPartial        bool             `json:"is_partial"`
	Answers          []SpeakingAnswer `json:"answers,omitempty" gorm:"foreignKey:SpeakingAttemptID;constraint:OnDelete:CASCADE;"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (s *SpeakingAttempt) Criteria() map[string]*float64 {
	return map[string]*float64{
		CriterionFluencyCoherence: s.FluencyCoherence,
		CriterionLexicalResource:  s.LexicalResource,
		CriterionGrammaticalRange: s.GrammaticalRange,
		CriterionPronunciation:    s.Pronunciation,
	}
}

func (s *SpeakingAttempt) SetCriteria(scores map[string]float64) {
	s.FluencyCoherence = scorePtr(scores, CriterionFluencyCoherence)
	s.LexicalResource = scorePtr(scores, CriterionLexicalResource)
	s.GrammaticalRange = scorePtr(scores, CriterionGrammaticalRange)
	s.Pronunciation = scorePtr(scores, CriterionPronunciation)
}

// WordIssues lists the words flagged by pronunciation assessment.
type WordIssues struct {
	Mispronounced []string `json:"mispronounced"`
	Omitted       []string `json:"omitted"`
	Inserted      []string `json:"inserted"`
}

// SpeakingAnswer is one recorded response. The pipeline only fills the
// transcript and the sub-scores.
type SpeakingAnswer struct {
	ID                 uint                           `gorm:"primarykey" json:"id"`
	SpeakingAttemptID  uint                           `json:"speaking_attempt_id" gorm:"not null;uniqueIndex:idx_speaking_answer_prompt"`
	PromptID           uint                           `json:"prompt_id" gorm:"not null;uniqueIndex:idx_speaking_answer_prompt"`
	Prompt             *SpeakingPrompt                `json:"prompt,omitempty" gorm:"foreignKey:PromptID"`
	AudioPath          string                         `json:"audio_path"`
	Transcript         string                         `json:"transcript" gorm:"type:text"`
	SpeechDetected     bool                           `json:"speech_detected"`
	AccuracyScore      *float64                       `json:"accuracy_score"`
	FluencyScore       *float64                       `json:"fluency_score"`
	CompletenessScore  *float64                       `json:"completeness_score"`
	PronunciationScore *float64                       `json:"pronunciation_score"`
	WordIssues         datatypes.JSONType[WordIssues] `json:"word_issues"`
	CreatedAt          time.Time                      `json:"created_at"`
	UpdatedAt          time.Time                      `json:"updated_at"`
}

// Answered reports whether the candidate recorded audio for the prompt.
func (a SpeakingAnswer) Answered() bool {
	return a.AudioPath != ""
}
