package evaluation

import (
	"fmt"
	"math"

	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/grading"
	"github.com/lshigami/mockexam/internal/scoring"
)

const (
	DefaultMinCompletion = 0.70
	minPenalty           = 0.5
)

// Decision is the outcome of checking a spoken submission for completeness.
type Decision struct {
	Proceed        bool
	Partial        bool
	CompletionRate float64
	// Penalty multiplies every criterion. It is 1 for a complete submission.
	Penalty  float64
	Total    int
	Answered int
}

func (d Decision) Penalized() bool {
	return d.Proceed && d.Penalty < 1
}

type Gate struct {
	threshold float64
}

func NewGate(threshold float64) Gate {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMinCompletion
	}
	return Gate{threshold: threshold}
}

func (g Gate) Check(total, answered int) Decision {
	d := Decision{Total: total, Answered: answered, Penalty: 1}
	if total > 0 {
		d.CompletionRate = float64(answered) / float64(total)
	}
	if d.CompletionRate < g.threshold {
		d.Partial = true
		d.Penalty = 0
		return d
	}
	d.Proceed = true
	if d.CompletionRate < 1 {
		d.Penalty = math.Max(minPenalty, d.CompletionRate)
	}
	return d
}

// Err returns the rejection for a submission that may not proceed.
func (g Gate) Err(d Decision) error {
	if d.Proceed {
		return nil
	}
	return &apperror.IncompleteSubmissionError{Total: d.Total, Answered: d.Answered, Threshold: g.threshold}
}

// ApplyPenalty scales every criterion by the penalty before rounding, then
// recomputes the overall band from the scaled criteria. The overall feedback
// and each criterion comment disclose the penalty.
func ApplyPenalty(result *grading.Result, d Decision) {
	if !d.Penalized() {
		return
	}
	note := fmt.Sprintf("Completion penalty applied: %d of %d prompts answered (%.0f%%), so the score was multiplied by %.2f.",
		d.Answered, d.Total, d.CompletionRate*100, d.Penalty)
	if result.CriterionFeedback == nil {
		result.CriterionFeedback = make(map[string]string, len(result.Criteria))
	}

	values := make([]float64, 0, len(result.Criteria))
	for name, score := range result.Criteria {
		scaled := scoring.RoundHalf(score * d.Penalty)
		result.Criteria[name] = scaled
		values = append(values, scaled)
		result.CriterionFeedback[name] = annotate(note, result.CriterionFeedback[name])
	}
	result.Overall = scoring.MeanBand(values)
	result.Feedback = annotate(note, result.Feedback)
}

func annotate(note, text string) string {
	if text == "" {
		return note
	}
	return note + " " + text
}
