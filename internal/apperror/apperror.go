// Package apperror holds the error kinds raised by the evaluation pipeline.
// Callers inspect them with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

// ValidationError rejects input that will never succeed. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TranscriptionError is raised when speech could not be turned into text.
type TranscriptionError struct {
	Reason string
	Err    error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Reason, e.Err)
	}
	return "transcription failed: " + e.Reason
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

type GradingCategory string

const (
	GradingTimeout     GradingCategory = "timeout"
	GradingConnection  GradingCategory = "connection"
	GradingCertificate GradingCategory = "certificate"
	GradingMalformed   GradingCategory = "malformed_response"
	GradingAuth        GradingCategory = "authentication"
	GradingQuota       GradingCategory = "quota_exceeded"
	GradingProvider    GradingCategory = "provider"
)

// Retryable reports whether a later attempt can succeed without operator action.
func (c GradingCategory) Retryable() bool {
	switch c {
	case GradingTimeout, GradingConnection, GradingCertificate, GradingMalformed, GradingProvider:
		return true
	}
	return false
}

// Hint is the user actionable message for the category.
func (c GradingCategory) Hint() string {
	switch c {
	case GradingTimeout:
		return "the grading service did not respond in time"
	case GradingConnection:
		return "the grading service could not be reached"
	case GradingCertificate:
		return "the grading service certificate could not be verified"
	case GradingMalformed:
		return "the grading service returned an unreadable response"
	case GradingAuth:
		return "the grading service rejected the configured credentials"
	case GradingQuota:
		return "the grading service quota is exhausted"
	}
	return "the grading service returned an error"
}

type GradingError struct {
	Category GradingCategory
	Err      error
	// TokensUsed counts tokens spent by replies received before the failure.
	TokensUsed int
}

func (e *GradingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("grading failed (%s): %s: %v", e.Category, e.Category.Hint(), e.Err)
	}
	return fmt.Sprintf("grading failed (%s): %s", e.Category, e.Category.Hint())
}

func (e *GradingError) Unwrap() error { return e.Err }

// TokensSpent returns the tokens carried by a GradingError in err's chain.
func TokensSpent(err error) int {
	var grading *GradingError
	if errors.As(err, &grading) {
		return grading.TokensUsed
	}
	return 0
}

// IncompleteSubmissionError rejects a spoken submission below the completion threshold.
type IncompleteSubmissionError struct {
	Total     int
	Answered  int
	Threshold float64
}

func (e *IncompleteSubmissionError) Missing() int {
	return e.Total - e.Answered
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("incomplete submission: %d of %d prompts unanswered, at least %.0f%% must be answered",
		e.Missing(), e.Total, e.Threshold*100)
}

// IsRetryable decides whether a failed evaluation may be scheduled again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return false
	}
	var incomplete *IncompleteSubmissionError
	if errors.As(err, &incomplete) {
		return false
	}
	var grading *GradingError
	if errors.As(err, &grading) {
		return grading.Category.Retryable()
	}
	var transcription *TranscriptionError
	if errors.As(err, &transcription) {
		return true
	}
	// Infrastructure failures such as database errors are worth another run.
	return true
}
