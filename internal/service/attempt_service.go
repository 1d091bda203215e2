package service

import (
	"context"

	"github.com/jinzhu/copier"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/rs/zerolog/log"
)

type AttemptService interface {
	StartAttempt(ctx context.Context, req dto.StartAttemptRequest) (*dto.ExamAttemptResponse, error)
	GetAttempt(ctx context.Context, id uint) (*dto.ExamAttemptResponse, error)
}

type attemptService struct {
	attemptRepo repository.ExamAttemptRepository
	testRepo    repository.TestRepository
}

func NewAttemptService(attemptRepo repository.ExamAttemptRepository, testRepo repository.TestRepository) AttemptService {
	return &attemptService{attemptRepo: attemptRepo, testRepo: testRepo}
}

func (s *attemptService) StartAttempt(ctx context.Context, req dto.StartAttemptRequest) (*dto.ExamAttemptResponse, error) {
	if _, err := s.testRepo.FindByID(ctx, req.TestID); err != nil {
		log.Warn().Err(err).Uint("testID", req.TestID).Msg("Cannot start attempt for unknown test")
		return nil, err
	}

	attempt := model.ExamAttempt{TestID: req.TestID, UserID: req.UserID}
	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		log.Error().Err(err).Uint("testID", req.TestID).Uint("userID", req.UserID).Msg("Failed to create exam attempt")
		return nil, err
	}
	log.Info().Uint("attemptID", attempt.ID).Uint("testID", attempt.TestID).Uint("userID", attempt.UserID).Msg("Exam attempt started")
	return toAttemptResponse(&attempt)
}

func (s *attemptService) GetAttempt(ctx context.Context, id uint) (*dto.ExamAttemptResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAttemptResponse(attempt)
}

func toAttemptResponse(attempt *model.ExamAttempt) (*dto.ExamAttemptResponse, error) {
	var resp dto.ExamAttemptResponse
	if err := copier.Copy(&resp, attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to map exam attempt")
		return nil, err
	}
	return &resp, nil
}
