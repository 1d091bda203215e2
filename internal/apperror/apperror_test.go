package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validation", NewValidation("content", "empty essay"), false},
		{"wrapped validation", fmt.Errorf("enqueue: %w", NewValidation("", "bad")), false},
		{"incomplete", &IncompleteSubmissionError{Total: 10, Answered: 6, Threshold: 0.7}, false},
		{"transcription", &TranscriptionError{Reason: "recognizer unavailable"}, true},
		{"grading timeout", &GradingError{Category: GradingTimeout}, true},
		{"grading certificate", &GradingError{Category: GradingCertificate}, true},
		{"grading auth", &GradingError{Category: GradingAuth}, false},
		{"grading quota", fmt.Errorf("grade: %w", &GradingError{Category: GradingQuota}), false},
		{"plain error", errors.New("database is locked"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIncompleteSubmissionMessage(t *testing.T) {
	err := &IncompleteSubmissionError{Total: 10, Answered: 6, Threshold: 0.7}
	msg := err.Error()
	if !strings.Contains(msg, "4 of 10") {
		t.Errorf("message should name the missing count, got %q", msg)
	}
	if !strings.Contains(msg, "70%") {
		t.Errorf("message should name the threshold, got %q", msg)
	}
}

func TestGradingErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &GradingError{Category: GradingConnection, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("GradingError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "could not be reached") {
		t.Errorf("message should carry the hint, got %q", err.Error())
	}
}
