package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/lshigami/mockexam/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScoreService keeps the section bands of an attempt and the overall band
// derived from them in step. It is also the evaluation pipeline's score sink.
type ScoreService interface {
	// SetSectionScore stores band for section and recomputes the overall band
	// in the same transaction. It returns the new overall band.
	SetSectionScore(ctx context.Context, attemptID uint, section model.Section, band *float64) (*float64, error)
	// SectionScored derives the writing or speaking band from completed jobs.
	SectionScored(ctx context.Context, attemptID uint, section model.Section) error
	GetOverallScore(ctx context.Context, attemptID uint) (*dto.OverallScoreResponse, error)
}

type scoreService struct {
	attemptRepo  repository.ExamAttemptRepository
	writingRepo  repository.WritingAttemptRepository
	speakingRepo repository.SpeakingAttemptRepository
	db           *gorm.DB
}

func NewScoreService(
	attemptRepo repository.ExamAttemptRepository,
	writingRepo repository.WritingAttemptRepository,
	speakingRepo repository.SpeakingAttemptRepository,
	db *gorm.DB,
) ScoreService {
	return &scoreService{
		attemptRepo:  attemptRepo,
		writingRepo:  writingRepo,
		speakingRepo: speakingRepo,
		db:           db,
	}
}

func (s *scoreService) SetSectionScore(ctx context.Context, attemptID uint, section model.Section, band *float64) (*float64, error) {
	if model.ScoreColumn(section) == "" {
		return nil, fmt.Errorf("unknown section %q", section)
	}

	var overall *float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.attemptRepo.WithTx(tx)
		if _, err := repo.Lock(ctx, attemptID); err != nil {
			return err
		}
		var err error
		overall, err = s.store(ctx, repo, attemptID, section, band)
		return err
	})
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Str("section", string(section)).Msg("Failed to store section score")
		return nil, err
	}
	logStored(attemptID, section, band, overall)
	return overall, nil
}

// SectionScored locks the attempt before reading the completed jobs, so two
// jobs finishing together cannot leave a band computed from stale results.
func (s *scoreService) SectionScored(ctx context.Context, attemptID uint, section model.Section) error {
	if section != model.SectionWriting && section != model.SectionSpeaking {
		return fmt.Errorf("section %q is not graded by evaluation jobs", section)
	}

	var band, overall *float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.attemptRepo.WithTx(tx)
		if _, err := repo.Lock(ctx, attemptID); err != nil {
			return err
		}
		var err error
		if section == model.SectionWriting {
			band, err = s.writingBand(ctx, s.writingRepo.WithTx(tx), attemptID)
		} else {
			band, err = s.speakingBand(ctx, s.speakingRepo.WithTx(tx), attemptID)
		}
		if err != nil || band == nil {
			return err
		}
		overall, err = s.store(ctx, repo, attemptID, section, band)
		return err
	})
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Str("section", string(section)).Msg("Failed to update section score")
		return err
	}
	if band == nil {
		log.Debug().Uint("attemptID", attemptID).Str("section", string(section)).Msg("No completed evaluation to score yet")
		return nil
	}
	logStored(attemptID, section, band, overall)
	return nil
}

// store writes the section band, then recomputes the overall band from what
// the attempt row now holds. repo must be bound to a transaction holding the
// attempt lock.
func (s *scoreService) store(ctx context.Context, repo repository.ExamAttemptRepository, attemptID uint, section model.Section, band *float64) (*float64, error) {
	if err := repo.SetSectionScore(ctx, attemptID, section, band); err != nil {
		return nil, err
	}
	attempt, err := repo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	overall := scoring.OverallBand(attempt.SectionScores()...)
	return overall, repo.SetOverallScore(ctx, attemptID, overall)
}

func (s *scoreService) writingBand(ctx context.Context, repo repository.WritingAttemptRepository, attemptID uint) (*float64, error) {
	jobs, err := repo.FindCompletedByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load writing results: %w", err)
	}
	var task1, task2 *float64
	for _, job := range jobs {
		if job.Task == nil {
			continue
		}
		switch job.Task.TaskNumber {
		case 1:
			task1 = job.State.OverallBand
		case 2:
			task2 = job.State.OverallBand
		}
	}
	return scoring.WritingBand(task1, task2), nil
}

func (s *scoreService) speakingBand(ctx context.Context, repo repository.SpeakingAttemptRepository, attemptID uint) (*float64, error) {
	job, err := repo.FindByAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load speaking result: %w", err)
	}
	if job.State.Status != model.StatusCompleted {
		return nil, nil
	}
	return job.State.OverallBand, nil
}

func logStored(attemptID uint, section model.Section, band, overall *float64) {
	event := log.Info().Uint("attemptID", attemptID).Str("section", string(section))
	if band != nil {
		event = event.Float64("band", *band)
	}
	if overall != nil {
		event = event.Float64("overall", *overall)
	}
	event.Msg("Section score stored")
}

func (s *scoreService) GetOverallScore(ctx context.Context, attemptID uint) (*dto.OverallScoreResponse, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	complete := true
	for _, band := range attempt.SectionScores() {
		if band == nil {
			complete = false
		}
	}
	return &dto.OverallScoreResponse{
		AttemptID:    attempt.ID,
		OverallScore: attempt.OverallScore,
		Complete:     complete,
	}, nil
}
