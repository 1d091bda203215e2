package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/metrics"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/scoring"
	"github.com/rs/zerolog/log"
)

const (
	minBand = 0.0
	maxBand = 9.0

	defaultMalformedRetries = 3
	defaultBackoff          = 2 * time.Second
)

// Transcription carries the speech assessment into a speaking grading request.
type Transcription struct {
	Accuracy      float64
	Fluency       float64
	Completeness  float64
	Pronunciation float64
	Issues        model.WordIssues
}

type Request struct {
	Kind          model.EvaluationKind
	TaskNumber    int
	TaskPrompt    string
	MinWords      int
	WordCount     int
	Prompts       []string
	CandidateText string
	Transcription *Transcription
}

// Result holds normalized criterion bands. Overall is always the rounded mean
// of the four criteria; ReportedOverall is what the model claimed.
type Result struct {
	Criteria map[string]float64
	// CriterionFeedback holds the comment returned for each criterion, if any.
	CriterionFeedback map[string]string
	Overall           float64
	ReportedOverall   float64
	Feedback          string
	TokensUsed        int
}

type Grader interface {
	Grade(ctx context.Context, req Request) (*Result, error)
}

type RubricGrader struct {
	provider Provider
	retries  int
	backoff  time.Duration
	timeout  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewRubricGrader(provider Provider, cfg *config.Config) *RubricGrader {
	backoff := cfg.Evaluation.RetryBase
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	timeout := cfg.AI.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RubricGrader{
		provider: provider,
		retries:  defaultMalformedRetries,
		backoff:  backoff,
		timeout:  timeout,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Grade asks the provider for a rubric assessment. Malformed replies are
// retried with exponential backoff; provider failures return at once,
// classified as *apperror.GradingError.
func (g *RubricGrader) Grade(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.CandidateText) == "" {
		return nil, apperror.NewValidation("candidate_text", "nothing to grade")
	}
	prompt := BuildPrompt(req)

	var lastErr error
	tokens := 0
	for attempt := 0; attempt <= g.retries; attempt++ {
		if attempt > 0 {
			delay := g.backoff << (attempt - 1)
			metrics.GradingRetries.WithLabelValues(string(req.Kind)).Inc()
			log.Warn().Err(lastErr).Str("kind", string(req.Kind)).Int("retry", attempt).Dur("delay", delay).Msg("Malformed grading response, retrying")
			if err := g.sleep(ctx, delay); err != nil {
				return nil, withTokens(ClassifyProviderError(err), tokens)
			}
		}

		cctx, cancel := context.WithTimeout(ctx, g.timeout)
		completion, err := g.provider.Complete(cctx, prompt)
		cancel()
		if err != nil {
			gradingErr := ClassifyProviderError(err)
			if gradingErr.Category != apperror.GradingMalformed {
				return nil, withTokens(gradingErr, tokens)
			}
			lastErr = err
			continue
		}
		tokens += completion.TokensUsed

		result, err := ParseResponse(req.Kind, completion.Text)
		if err != nil {
			lastErr = err
			continue
		}
		result.TokensUsed = tokens
		return result, nil
	}
	return nil, &apperror.GradingError{Category: apperror.GradingMalformed, Err: lastErr, TokensUsed: tokens}
}

// withTokens copies err with the tokens spent so far, leaving a provider's own
// error value untouched.
func withTokens(err *apperror.GradingError, tokens int) *apperror.GradingError {
	out := *err
	out.TokensUsed += tokens
	return &out
}

// ParseResponse repairs and decodes a rubric reply. Every criterion of kind
// must be present. A criterion is a number, a numeric string, or an object
// with "score" and "feedback".
func ParseResponse(kind model.EvaluationKind, raw string) (*Result, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(Repair(raw)), &doc); err != nil {
		return nil, fmt.Errorf("decode rubric response: %w", err)
	}

	source := doc
	if nested, ok := doc["criteria"]; ok {
		var criteria map[string]json.RawMessage
		if err := json.Unmarshal(nested, &criteria); err != nil {
			return nil, fmt.Errorf("decode criteria: %w", err)
		}
		source = criteria
	}

	result := &Result{Criteria: make(map[string]float64, 4), CriterionFeedback: make(map[string]string, 4)}
	values := make([]float64, 0, 4)
	for _, name := range kind.Criteria() {
		rawScore, ok := source[name]
		if !ok {
			return nil, fmt.Errorf("criterion %q missing from response", name)
		}
		score, comment, err := parseCriterion(rawScore)
		if err != nil {
			return nil, fmt.Errorf("criterion %q: %w", name, err)
		}
		if comment != "" {
			result.CriterionFeedback[name] = comment
		}
		score = NormalizeBand(score)
		result.Criteria[name] = score
		values = append(values, score)
	}
	result.Overall = scoring.MeanBand(values)

	if rawOverall, ok := doc["overall_band"]; ok {
		if reported, err := parseScore(rawOverall); err == nil {
			result.ReportedOverall = NormalizeBand(reported)
		}
	}
	result.Feedback = parseFeedback(doc["feedback"])
	return result, nil
}

// NormalizeBand clamps to [0, 9] and rounds to the nearest 0.5.
func NormalizeBand(v float64) float64 {
	if math.IsNaN(v) {
		return minBand
	}
	return scoring.RoundHalf(math.Max(minBand, math.Min(maxBand, v)))
}

func parseCriterion(raw json.RawMessage) (float64, string, error) {
	var obj struct {
		Score    json.RawMessage `json:"score"`
		Feedback json.RawMessage `json:"feedback"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if len(obj.Score) == 0 {
			return 0, "", errors.New("score missing")
		}
		score, err := parseScore(obj.Score)
		return score, parseFeedback(obj.Feedback), err
	}
	score, err := parseScore(raw)
	return score, "", err
}

func parseScore(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errors.New("score is neither a number nor a string")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("score %q is not numeric", s)
	}
	return n, nil
}

func parseFeedback(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}
