// Package evaluation runs AI graded writing and speaking jobs from PENDING
// through PROCESSING to COMPLETED or FAILED.
package evaluation

import (
	"time"

	"github.com/lshigami/mockexam/internal/model"
)

// Canonical task names carried by queue messages.
const (
	TaskWriting  = "evaluation.writing"
	TaskSpeaking = "evaluation.speaking"
)

// Task names published by earlier releases. They are forwarded, never processed directly.
var legacyTasks = map[string]model.EvaluationKind{
	"process_writing_attempt":  model.KindWriting,
	"process_speaking_attempt": model.KindSpeaking,
}

var transitions = map[model.EvaluationStatus][]model.EvaluationStatus{
	model.StatusPending:    {model.StatusProcessing},
	model.StatusProcessing: {model.StatusCompleted, model.StatusFailed},
	model.StatusFailed:     {model.StatusProcessing, model.StatusPending},
}

// CanTransition reports whether a job may move from one status to another.
// FAILED to PENDING is the operator reset.
func CanTransition(from, to model.EvaluationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Claimable reports whether a worker may start a run of the job.
func Claimable(s model.EvaluationState, maxAttempts int) bool {
	if !CanTransition(s.Status, model.StatusProcessing) {
		return false
	}
	return !s.Terminal && s.FailureCount < maxAttempts
}

func TaskFor(kind model.EvaluationKind) string {
	if kind == model.KindSpeaking {
		return TaskSpeaking
	}
	return TaskWriting
}

// ResolveTask maps a task name to its kind. legacy is true for old names.
func ResolveTask(task string) (kind model.EvaluationKind, legacy bool, ok bool) {
	switch task {
	case TaskWriting:
		return model.KindWriting, false, true
	case TaskSpeaking:
		return model.KindSpeaking, false, true
	}
	kind, ok = legacyTasks[task]
	return kind, ok, ok
}

// RetryDelay is base doubled for every failure after the first: 2s, 4s, 8s for a 2s base.
func RetryDelay(base time.Duration, failures int) time.Duration {
	if failures < 1 {
		failures = 1
	}
	return base << (failures - 1)
}
