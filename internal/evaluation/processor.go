package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/grading"
	"github.com/lshigami/mockexam/internal/metrics"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/lshigami/mockexam/internal/speech"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const DefaultMaxAttempts = 3

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeRetry     Outcome = "retry_scheduled"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeForwarded Outcome = "forwarded"
)

// Report describes one run. Failures is the failure count after the run.
type Report struct {
	Outcome  Outcome
	Failures int
	Err      error
}

// ScoreSink receives the attempt whose section score may have changed.
type ScoreSink interface {
	SectionScored(ctx context.Context, attemptID uint, section model.Section) error
}

type JobProcessor interface {
	Process(ctx context.Context, kind model.EvaluationKind, jobID uint) (Report, error)
}

type Processor struct {
	states      repository.EvaluationStateRepository
	writing     repository.WritingAttemptRepository
	speaking    repository.SpeakingAttemptRepository
	grader      grading.Grader
	transcriber speech.Transcriber
	usage       UsageLedger
	sink        ScoreSink
	gate        Gate
	maxAttempts int
	now         func() time.Time
}

func NewProcessor(
	states repository.EvaluationStateRepository,
	writing repository.WritingAttemptRepository,
	speaking repository.SpeakingAttemptRepository,
	grader grading.Grader,
	transcriber speech.Transcriber,
	usage UsageLedger,
	sink ScoreSink,
	cfg *config.Config,
) *Processor {
	maxAttempts := cfg.Evaluation.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Processor{
		states:      states,
		writing:     writing,
		speaking:    speaking,
		grader:      grader,
		transcriber: transcriber,
		usage:       usage,
		sink:        sink,
		gate:        NewGate(cfg.Evaluation.MinCompletion),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Process claims the job and runs it once. Run failures are recorded on the
// job and reported through Report; the returned error is reserved for
// failures to claim or to record the outcome.
func (p *Processor) Process(ctx context.Context, kind model.EvaluationKind, jobID uint) (Report, error) {
	start := p.now()
	claimed, err := p.states.Claim(ctx, kind, jobID, p.maxAttempts)
	if err != nil {
		return Report{}, fmt.Errorf("claim %s job %d: %w", kind, jobID, err)
	}
	if !claimed {
		log.Info().Str("kind", string(kind)).Uint("jobID", jobID).Msg("Evaluation job not claimable, skipping")
		metrics.JobsProcessed.WithLabelValues(string(kind), string(OutcomeSkipped)).Inc()
		return Report{Outcome: OutcomeSkipped}, nil
	}
	defer func() {
		metrics.JobDuration.WithLabelValues(string(kind)).Observe(p.now().Sub(start).Seconds())
	}()

	var runErr error
	switch kind {
	case model.KindWriting:
		runErr = p.runWriting(ctx, jobID)
	case model.KindSpeaking:
		runErr = p.runSpeaking(ctx, jobID)
	default:
		runErr = apperror.NewValidation("kind", "unknown evaluation kind %q", kind)
	}
	if runErr == nil {
		metrics.JobsProcessed.WithLabelValues(string(kind), string(OutcomeCompleted)).Inc()
		return Report{Outcome: OutcomeCompleted}, nil
	}
	return p.fail(ctx, kind, jobID, runErr)
}

func (p *Processor) fail(ctx context.Context, kind model.EvaluationKind, jobID uint, runErr error) (Report, error) {
	var incomplete *apperror.IncompleteSubmissionError
	state, err := p.states.MarkFailed(ctx, kind, jobID, repository.Failure{
		Message:     runErr.Error(),
		Retryable:   apperror.IsRetryable(runErr),
		MaxAttempts: p.maxAttempts,
		Partial:     errors.As(runErr, &incomplete),
		TokensUsed:  apperror.TokensSpent(runErr),
	})
	if err != nil {
		return Report{}, fmt.Errorf("record failure of %s job %d: %w", kind, jobID, err)
	}
	if tokens := apperror.TokensSpent(runErr); tokens > 0 {
		p.charge(ctx, kind, jobID, state.AttemptCount, tokens)
	}

	report := Report{Outcome: OutcomeRetry, Failures: state.FailureCount, Err: runErr}
	if state.Terminal {
		report.Outcome = OutcomeFailed
	}
	log.Error().Err(runErr).
		Str("kind", string(kind)).
		Uint("jobID", jobID).
		Int("failures", state.FailureCount).
		Bool("terminal", state.Terminal).
		Msg("Evaluation job failed")
	metrics.JobsProcessed.WithLabelValues(string(kind), string(report.Outcome)).Inc()
	return report, nil
}

func (p *Processor) runWriting(ctx context.Context, jobID uint) error {
	job, err := p.writing.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load writing job: %w", err)
	}
	if job.Task == nil {
		return apperror.NewValidation("task_id", "writing task %d not found", job.TaskID)
	}
	log.Info().Uint("jobID", job.ID).Uint("attemptID", job.AttemptID).Int("attempt", job.State.AttemptCount).Msg("Grading writing task")

	result, err := p.grader.Grade(ctx, grading.Request{
		Kind:          model.KindWriting,
		TaskNumber:    job.Task.TaskNumber,
		TaskPrompt:    job.Task.Prompt,
		MinWords:      job.Task.MinWords,
		WordCount:     job.WordCount,
		CandidateText: job.Content,
	})
	if err != nil {
		return err
	}

	job.SetCriteria(result.Criteria)
	p.complete(&job.State, result)
	if err := p.writing.Save(ctx, job); err != nil {
		return fmt.Errorf("save writing result: %w", err)
	}
	p.charge(ctx, model.KindWriting, job.ID, job.State.AttemptCount, result.TokensUsed)
	p.notify(ctx, job.AttemptID, model.SectionWriting)
	return nil
}

func (p *Processor) runSpeaking(ctx context.Context, jobID uint) error {
	job, err := p.speaking.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load speaking job: %w", err)
	}

	var answered []*model.SpeakingAnswer
	for i := range job.Answers {
		if job.Answers[i].Answered() {
			answered = append(answered, &job.Answers[i])
		}
	}
	decision := p.gate.Check(job.TotalPrompts, len(answered))
	if err := p.gate.Err(decision); err != nil {
		return err
	}
	log.Info().Uint("jobID", job.ID).Uint("attemptID", job.AttemptID).Int("attempt", job.State.AttemptCount).
		Float64("completionRate", decision.CompletionRate).Msg("Grading speaking submission")

	transcription, prompts, transcript, err := p.transcribeAll(ctx, answered)
	if err != nil {
		return err
	}

	result, err := p.grader.Grade(ctx, grading.Request{
		Kind:          model.KindSpeaking,
		Prompts:       prompts,
		CandidateText: transcript,
		Transcription: transcription,
	})
	if err != nil {
		return err
	}

	ApplyPenalty(result, decision)
	if decision.Penalized() {
		penalty := decision.Penalty
		job.PenaltyApplied = &penalty
	} else {
		job.PenaltyApplied = nil
	}
	job.AnsweredPrompts = len(answered)
	job.IsPartial = false
	job.SetCriteria(result.Criteria)
	p.complete(&job.State, result)
	if err := p.speaking.Save(ctx, job); err != nil {
		return fmt.Errorf("save speaking result: %w", err)
	}
	p.charge(ctx, model.KindSpeaking, job.ID, job.State.AttemptCount, result.TokensUsed)
	p.notify(ctx, job.AttemptID, model.SectionSpeaking)
	return nil
}

// transcribeAll transcribes every answered prompt, reusing transcripts
// stored by an earlier run, and merges the assessments of prompts with speech.
func (p *Processor) transcribeAll(ctx context.Context, answers []*model.SpeakingAnswer) (*grading.Transcription, []string, string, error) {
	merged := &grading.Transcription{Issues: model.WordIssues{Mispronounced: []string{}, Omitted: []string{}, Inserted: []string{}}}
	var prompts, parts []string
	detected := 0

	for _, a := range answers {
		if a.AccuracyScore == nil {
			res, err := p.transcriber.Transcribe(ctx, a.AudioPath)
			if err != nil {
				log.Error().Err(err).Uint("promptID", a.PromptID).Msg("Transcription failed")
				return nil, nil, "", err
			}
			storeTranscription(a, res)
			if err := p.speaking.SaveAnswer(ctx, a); err != nil {
				return nil, nil, "", fmt.Errorf("save transcript for prompt %d: %w", a.PromptID, err)
			}
		}
		if !a.SpeechDetected {
			log.Warn().Uint("promptID", a.PromptID).Msg("No speech detected in recording")
			continue
		}

		detected++
		if a.Prompt != nil {
			prompts = append(prompts, a.Prompt.Prompt)
		}
		parts = append(parts, a.Transcript)
		merged.Accuracy += deref(a.AccuracyScore)
		merged.Fluency += deref(a.FluencyScore)
		merged.Completeness += deref(a.CompletenessScore)
		merged.Pronunciation += deref(a.PronunciationScore)
		issues := a.WordIssues.Data()
		merged.Issues.Mispronounced = append(merged.Issues.Mispronounced, issues.Mispronounced...)
		merged.Issues.Omitted = append(merged.Issues.Omitted, issues.Omitted...)
		merged.Issues.Inserted = append(merged.Issues.Inserted, issues.Inserted...)
	}

	if detected == 0 {
		return nil, nil, "", apperror.NewValidation("audio", "no speech detected in any recorded answer")
	}
	n := float64(detected)
	merged.Accuracy /= n
	merged.Fluency /= n
	merged.Completeness /= n
	merged.Pronunciation /= n
	return merged, prompts, strings.Join(parts, "\n\n"), nil
}

func storeTranscription(a *model.SpeakingAnswer, res *speech.Result) {
	a.SpeechDetected = res.Success
	a.Transcript = res.Transcript
	a.AccuracyScore = &res.Accuracy
	a.FluencyScore = &res.Fluency
	a.CompletenessScore = &res.Completeness
	a.PronunciationScore = &res.Pronunciation
	a.WordIssues = datatypes.NewJSONType(res.Issues)
}

func (p *Processor) complete(state *model.EvaluationState, result *grading.Result) {
	now := p.now()
	overall := result.Overall
	state.Status = model.StatusCompleted
	state.OverallBand = &overall
	state.Feedback = result.Feedback
	state.CriterionFeedback = datatypes.NewJSONType(result.CriterionFeedback)
	state.TokensUsed += result.TokensUsed
	state.ErrorMessage = ""
	state.EvaluatedAt = &now
}

func (p *Processor) charge(ctx context.Context, kind model.EvaluationKind, jobID uint, run, tokens int) {
	charged, err := p.usage.Charge(ctx, kind, jobID, run, tokens)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Uint("jobID", jobID).Msg("Failed to record grading usage")
		return
	}
	if !charged {
		log.Debug().Str("kind", string(kind)).Uint("jobID", jobID).Int("attempt", run).Msg("Usage already recorded for this run")
	}
}

// notify hands the attempt to the score sink. The job stays COMPLETED when
// this fails.
func (p *Processor) notify(ctx context.Context, attemptID uint, section model.Section) {
	if err := p.sink.SectionScored(ctx, attemptID, section); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Str("section", string(section)).Msg("Failed to update section score")
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
