package service

import (
	"context"

	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/lshigami/mockexam/internal/scoring"
	"github.com/rs/zerolog/log"
)

type AnalysisService interface {
	GetAnalysis(ctx context.Context, attemptID uint) (*dto.AnalysisResponse, error)
}

type analysisService struct {
	attemptRepo repository.ExamAttemptRepository
	resultRepo  repository.SectionResultRepository
}

func NewAnalysisService(attemptRepo repository.ExamAttemptRepository, resultRepo repository.SectionResultRepository) AnalysisService {
	return &analysisService{attemptRepo: attemptRepo, resultRepo: resultRepo}
}

// GetAnalysis classifies the stored breakdowns of every finalized section.
func (s *analysisService) GetAnalysis(ctx context.Context, attemptID uint) (*dto.AnalysisResponse, error) {
	if _, err := s.attemptRepo.FindByID(ctx, attemptID); err != nil {
		return nil, err
	}
	results, err := s.resultRepo.FindByAttempt(ctx, attemptID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load section results")
		return nil, err
	}

	sections := make([]scoring.SectionAnalysis, 0, len(results))
	for _, r := range results {
		breakdown := r.Breakdown.Data()
		sections = append(sections, scoring.SectionAnalysis{
			Section:  r.Section,
			Analysis: scoring.Analysis{ByType: breakdown.ByType, ByPart: breakdown.ByPart},
		})
	}
	report := scoring.Classify(sections)

	return &dto.AnalysisResponse{
		AttemptID:  attemptID,
		Strengths:  toFindings(report.Strengths),
		Weaknesses: toFindings(report.Weaknesses),
	}, nil
}

func toFindings(in []scoring.Finding) []dto.Finding {
	out := make([]dto.Finding, 0, len(in))
	for _, f := range in {
		out = append(out, dto.Finding{
			Section:      string(f.Section),
			Kind:         string(f.Kind),
			QuestionType: string(f.QuestionType),
			Accuracy:     f.Accuracy,
			Tip:          f.Tip,
		})
	}
	return out
}
