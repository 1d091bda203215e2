package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/evaluation"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/queue"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultFailedListLimit = 50

// EvaluationService accepts writing and speaking submissions, queues their
// evaluation jobs and exposes job state to candidates and operators.
type EvaluationService interface {
	SubmitWriting(ctx context.Context, attemptID, taskID uint, req dto.WritingSubmissionRequest) (*dto.EvaluationJobResponse, error)
	SubmitSpeaking(ctx context.Context, attemptID uint, req dto.SpeakingSubmissionRequest) (*dto.EvaluationJobResponse, error)
	GetJob(ctx context.Context, kind model.EvaluationKind, jobID uint) (*dto.EvaluationJobResponse, error)
	ListFailed(ctx context.Context, kind model.EvaluationKind, limit int) (*dto.FailedJobsResponse, error)
	// RetryJob gives a FAILED job a fresh attempt budget and queues it again.
	RetryJob(ctx context.Context, kind model.EvaluationKind, jobID uint) (*dto.EvaluationJobResponse, error)
}

type evaluationService struct {
	attemptRepo  repository.ExamAttemptRepository
	testRepo     repository.TestRepository
	writingRepo  repository.WritingAttemptRepository
	speakingRepo repository.SpeakingAttemptRepository
	stateRepo    repository.EvaluationStateRepository
	publisher    queue.Publisher
	maxAttempts  int
	now          func() time.Time
}

func NewEvaluationService(
	attemptRepo repository.ExamAttemptRepository,
	testRepo repository.TestRepository,
	writingRepo repository.WritingAttemptRepository,
	speakingRepo repository.SpeakingAttemptRepository,
	stateRepo repository.EvaluationStateRepository,
	publisher queue.Publisher,
	cfg *config.Config,
) EvaluationService {
	maxAttempts := cfg.Evaluation.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = evaluation.DefaultMaxAttempts
	}
	return &evaluationService{
		attemptRepo:  attemptRepo,
		testRepo:     testRepo,
		writingRepo:  writingRepo,
		speakingRepo: speakingRepo,
		stateRepo:    stateRepo,
		publisher:    publisher,
		maxAttempts:  maxAttempts,
		now:          time.Now,
	}
}

func (s *evaluationService) SubmitWriting(ctx context.Context, attemptID, taskID uint, req dto.WritingSubmissionRequest) (*dto.EvaluationJobResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	task, err := s.testRepo.FindWritingTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TestID != attempt.TestID {
		return nil, apperror.NewValidation("task_id", "writing task %d does not belong to test %d", taskID, attempt.TestID)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.NewValidation("content", "essay is empty")
	}

	existing, err := s.writingRepo.FindByAttemptAndTask(ctx, attemptID, taskID)
	switch {
	case err == nil:
		wordCount := len(strings.Fields(content))
		return s.resubmit(ctx, model.KindWriting, existing.ID, existing.State, func() (bool, error) {
			return s.writingRepo.ReplacePending(ctx, existing.ID, content, wordCount, s.now())
		})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	job := model.WritingAttempt{
		AttemptID: attemptID,
		TaskID:    taskID,
		Task:      task,
		Content:   content,
		WordCount: len(strings.Fields(content)),
		State:     model.EvaluationState{Status: model.StatusPending, SubmittedAt: s.now()},
	}
	if err := s.writingRepo.Create(ctx, &job); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Uint("taskID", taskID).Msg("Failed to create writing job")
		return nil, err
	}
	if err := s.enqueue(ctx, model.KindWriting, job.ID); err != nil {
		return nil, err
	}
	log.Info().Uint("jobID", job.ID).Uint("attemptID", attemptID).Int("wordCount", job.WordCount).Msg("Writing evaluation queued")
	return s.writingResponse(&job), nil
}

func (s *evaluationService) SubmitSpeaking(ctx context.Context, attemptID uint, req dto.SpeakingSubmissionRequest) (*dto.EvaluationJobResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	prompts, err := s.testRepo.FindSpeakingPrompts(ctx, attempt.TestID)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, apperror.NewValidation("test_id", "test %d has no speaking prompts", attempt.TestID)
	}

	known := make(map[uint]bool, len(prompts))
	for _, p := range prompts {
		known[p.ID] = true
	}
	recorded := make(map[uint]string, len(req.Recordings))
	for _, rec := range req.Recordings {
		if !known[rec.PromptID] {
			return nil, apperror.NewValidation("recordings", "prompt %d does not belong to test %d", rec.PromptID, attempt.TestID)
		}
		if _, dup := recorded[rec.PromptID]; dup {
			return nil, apperror.NewValidation("recordings", "prompt %d recorded more than once", rec.PromptID)
		}
		recorded[rec.PromptID] = strings.TrimSpace(rec.AudioPath)
	}
	answers := make([]model.SpeakingAnswer, 0, len(prompts))
	answered := 0
	for _, p := range prompts {
		path := recorded[p.ID]
		if path != "" {
			answered++
		}
		answers = append(answers, model.SpeakingAnswer{PromptID: p.ID, AudioPath: path})
	}

	existing, err := s.speakingRepo.FindByAttempt(ctx, attemptID)
	switch {
	case err == nil:
		return s.resubmit(ctx, model.KindSpeaking, existing.ID, existing.State, func() (bool, error) {
			return s.speakingRepo.ReplacePending(ctx, existing.ID, answers, len(prompts), answered, s.now())
		})
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	job := model.SpeakingAttempt{
		AttemptID:       attemptID,
		TotalPrompts:    len(prompts),
		AnsweredPrompts: answered,
		Answers:         answers,
		State:           model.EvaluationState{Status: model.StatusPending, SubmittedAt: s.now()},
	}
	if err := s.speakingRepo.Create(ctx, &job); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to create speaking job")
		return nil, err
	}
	if err := s.enqueue(ctx, model.KindSpeaking, job.ID); err != nil {
		return nil, err
	}
	log.Info().Uint("jobID", job.ID).Uint("attemptID", attemptID).
		Int("answered", answered).Int("total", job.TotalPrompts).Msg("Speaking evaluation queued")
	return s.speakingResponse(&job), nil
}

// resubmit handles a second submission for the same job. A job still
// PENDING takes the new submission and is queued again, since its first
// message may have been lost. Any other state is rejected.
func (s *evaluationService) resubmit(ctx context.Context, kind model.EvaluationKind, jobID uint, state model.EvaluationState, replace func() (bool, error)) (*dto.EvaluationJobResponse, error) {
	if state.Status != model.StatusPending {
		return nil, apperror.NewValidation("submission", "%s job %d already exists with status %s", kind, jobID, state.Status)
	}
	replaced, err := replace()
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Uint("jobID", jobID).Msg("Failed to replace pending submission")
		return nil, err
	}
	if !replaced {
		return nil, apperror.NewValidation("submission", "%s job %d was picked up for evaluation, try again later", kind, jobID)
	}
	if err := s.enqueue(ctx, kind, jobID); err != nil {
		return nil, err
	}
	log.Info().Str("kind", string(kind)).Uint("jobID", jobID).Msg("Pending submission replaced and queued again")
	return s.GetJob(ctx, kind, jobID)
}

func (s *evaluationService) enqueue(ctx context.Context, kind model.EvaluationKind, jobID uint) error {
	msg := queue.NewMessage(evaluation.TaskFor(kind), jobID)
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Uint("jobID", jobID).Msg("Failed to queue evaluation job")
		return err
	}
	return nil
}

func (s *evaluationService) GetJob(ctx context.Context, kind model.EvaluationKind, jobID uint) (*dto.EvaluationJobResponse, error) {
	switch kind {
	case model.KindWriting:
		job, err := s.writingRepo.FindByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		return s.writingResponse(job), nil
	case model.KindSpeaking:
		job, err := s.speakingRepo.FindByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		return s.speakingResponse(job), nil
	}
	return nil, apperror.NewValidation("kind", "unknown evaluation kind %q", kind)
}

func (s *evaluationService) ListFailed(ctx context.Context, kind model.EvaluationKind, limit int) (*dto.FailedJobsResponse, error) {
	if limit <= 0 {
		limit = defaultFailedListLimit
	}
	resp := &dto.FailedJobsResponse{Kind: string(kind), Jobs: []dto.EvaluationJobResponse{}}
	switch kind {
	case model.KindWriting:
		jobs, err := s.writingRepo.ListFailed(ctx, limit)
		if err != nil {
			return nil, err
		}
		for i := range jobs {
			resp.Jobs = append(resp.Jobs, *s.writingResponse(&jobs[i]))
		}
	case model.KindSpeaking:
		jobs, err := s.speakingRepo.ListFailed(ctx, limit)
		if err != nil {
			return nil, err
		}
		for i := range jobs {
			resp.Jobs = append(resp.Jobs, *s.speakingResponse(&jobs[i]))
		}
	default:
		return nil, apperror.NewValidation("kind", "unknown evaluation kind %q", kind)
	}
	resp.Count = len(resp.Jobs)
	return resp, nil
}

func (s *evaluationService) RetryJob(ctx context.Context, kind model.EvaluationKind, jobID uint) (*dto.EvaluationJobResponse, error) {
	current, err := s.GetJob(ctx, kind, jobID)
	if err != nil {
		return nil, err
	}
	if current.IsPartial {
		return nil, apperror.NewValidation("job_id", "job %d is a partial submission; it needs more answers, not a retry", jobID)
	}
	if !evaluation.CanTransition(model.EvaluationStatus(current.Status), model.StatusPending) {
		return nil, apperror.NewValidation("job_id", "only failed jobs can be retried, job %d is %s", jobID, current.Status)
	}

	reset, err := s.stateRepo.Reset(ctx, kind, jobID)
	if err != nil {
		return nil, err
	}
	if !reset {
		return nil, apperror.NewValidation("job_id", "job %d changed state, try again", jobID)
	}
	if err := s.enqueue(ctx, kind, jobID); err != nil {
		return nil, err
	}
	log.Info().Str("kind", string(kind)).Uint("jobID", jobID).Int("previousFailures", current.FailureCount).Msg("Evaluation job re-queued by operator")
	return s.GetJob(ctx, kind, jobID)
}

func (s *evaluationService) writingResponse(job *model.WritingAttempt) *dto.EvaluationJobResponse {
	resp := s.stateResponse(model.KindWriting, job.ID, job.AttemptID, job.State, job.Criteria())
	resp.TaskID = job.TaskID
	resp.WordCount = job.WordCount
	return resp
}

func (s *evaluationService) speakingResponse(job *model.SpeakingAttempt) *dto.EvaluationJobResponse {
	resp := s.stateResponse(model.KindSpeaking, job.ID, job.AttemptID, job.State, job.Criteria())
	resp.TotalPrompts = job.TotalPrompts
	resp.AnsweredPrompts = job.AnsweredPrompts
	if job.TotalPrompts > 0 {
		resp.CompletionRate = float64(job.AnsweredPrompts) / float64(job.TotalPrompts)
	}
	resp.PenaltyApplied = job.PenaltyApplied != nil
	resp.PenaltyMultiplier = job.PenaltyApplied
	resp.IsPartial = job.IsPartial
	return resp
}

func (s *evaluationService) stateResponse(kind model.EvaluationKind, id, attemptID uint, state model.EvaluationState, criteria map[string]*float64) *dto.EvaluationJobResponse {
	return &dto.EvaluationJobResponse{
		ID:                id,
		Kind:              string(kind),
		AttemptID:         attemptID,
		Status:            string(state.Status),
		AttemptCount:      state.AttemptCount,
		FailureCount:      state.FailureCount,
		Terminal:          state.Terminal,
		RetryPending:      state.Status == model.StatusFailed && evaluation.Claimable(state, s.maxAttempts),
		ErrorMessage:      state.ErrorMessage,
		Criteria:          criteria,
		OverallBand:       state.OverallBand,
		Feedback:          state.Feedback,
		CriterionFeedback: state.CriterionFeedback.Data(),
		TokensUsed:        state.TokensUsed,
		SubmittedAt:       state.SubmittedAt,
		EvaluatedAt:       state.EvaluatedAt,
	}
}
