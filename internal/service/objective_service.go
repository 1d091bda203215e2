package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/metrics"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/lshigami/mockexam/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// ObjectiveService scores listening and reading answers as they arrive and
// turns a finished section into a band.
type ObjectiveService interface {
	SubmitAnswer(ctx context.Context, attemptID, questionID uint, req dto.SubmitAnswerRequest) (*dto.AnswerResult, error)
	FinalizeSection(ctx context.Context, attemptID uint, section model.Section) (*dto.SectionResultResponse, error)
}

type objectiveService struct {
	attemptRepo  repository.ExamAttemptRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	resultRepo   repository.SectionResultRepository
	converter    *scoring.BandConverter
	scores       ScoreService
}

func NewObjectiveService(
	attemptRepo repository.ExamAttemptRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.SectionResultRepository,
	converter *scoring.BandConverter,
	scores ScoreService,
) ObjectiveService {
	return &objectiveService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		resultRepo:   resultRepo,
		converter:    converter,
		scores:       scores,
	}
}

func (s *objectiveService) SubmitAnswer(ctx context.Context, attemptID, questionID uint, req dto.SubmitAnswerRequest) (*dto.AnswerResult, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.Group == nil || question.Group.TestID != attempt.TestID {
		return nil, apperror.NewValidation("question_id", "question %d does not belong to test %d", questionID, attempt.TestID)
	}

	result := scoring.Evaluate(*question, req.Response)
	answer := model.Answer{
		AttemptID:  attemptID,
		QuestionID: questionID,
		Response:   req.Response,
		IsCorrect:  result.IsCorrect,
		Score:      result.Score,
		Weight:     result.Weight,
	}
	if err := s.answerRepo.Upsert(ctx, &answer); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Uint("questionID", questionID).Msg("Failed to store answer")
		return nil, err
	}
	metrics.ObjectiveAnswers.WithLabelValues(strconv.FormatBool(result.IsCorrect)).Inc()

	return &dto.AnswerResult{
		QuestionID: questionID,
		IsCorrect:  result.IsCorrect,
		Score:      result.Score,
		Weight:     result.Weight,
	}, nil
}

// FinalizeSection scores every question of the section, answered or not,
// stores the breakdown and updates the attempt's section and overall bands.
func (s *objectiveService) FinalizeSection(ctx context.Context, attemptID uint, section model.Section) (*dto.SectionResultResponse, error) {
	if !section.Objective() {
		return nil, apperror.NewValidation("section", "%q is not an objective section", section)
	}
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.FindBySection(ctx, attempt.TestID, section)
	if err != nil {
		return nil, fmt.Errorf("load %s questions: %w", section, err)
	}
	if len(questions) == 0 {
		return nil, apperror.NewValidation("section", "test %d has no %s questions", attempt.TestID, section)
	}
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	answers, err := s.answerRepo.FindByAttempt(ctx, attemptID, ids)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	analysis := scoring.Analyze(questions, answers)
	var earned, possible float64
	for _, stat := range analysis.ByType {
		earned += stat.Earned
		possible += stat.Possible
	}
	correct, total := int(math.Round(earned)), int(math.Round(possible))
	band := s.converter.ToBand(correct, total, section)

	result := model.SectionResult{
		AttemptID: attemptID,
		Section:   section,
		Correct:   correct,
		Total:     total,
		Band:      band,
		Breakdown: datatypes.NewJSONType(model.SectionBreakdown{ByType: analysis.ByType, ByPart: analysis.ByPart}),
	}
	if err := s.resultRepo.Upsert(ctx, &result); err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Str("section", string(section)).Msg("Failed to store section result")
		return nil, err
	}
	overall, err := s.scores.SetSectionScore(ctx, attemptID, section, &band)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("attemptID", attemptID).Str("section", string(section)).
		Int("correct", correct).Int("total", total).Float64("band", band).Msg("Section finalized")

	resp := &dto.SectionResultResponse{
		AttemptID:    attemptID,
		Section:      string(section),
		Correct:      correct,
		Total:        total,
		Band:         band,
		ByType:       make(map[string]dto.Accuracy, len(analysis.ByType)),
		ByPart:       make(map[int]dto.Accuracy, len(analysis.ByPart)),
		OverallScore: overall,
	}
	for t, stat := range analysis.ByType {
		resp.ByType[string(t)] = toAccuracy(stat)
	}
	for p, stat := range analysis.ByPart {
		resp.ByPart[p] = toAccuracy(stat)
	}
	return resp, nil
}

func toAccuracy(stat model.AccuracyStat) dto.Accuracy {
	return dto.Accuracy{Earned: stat.Earned, Possible: stat.Possible, Rate: stat.Rate()}
}
