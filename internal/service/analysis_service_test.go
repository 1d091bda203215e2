package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
)

func TestGetAnalysisClassifiesFinalizedSections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	test := f.test(t, "Academic 1")
	judgements := f.questions(t, test.ID, model.SectionReading, 1, model.TypeTrueFalseNotGiven, 10)
	short := f.questions(t, test.ID, model.SectionReading, 2, model.TypeShortAnswer, 10)
	attempt := f.attempt(t, test.ID)

	answer := func(q model.Question, response string) {
		t.Helper()
		if _, err := f.objective.SubmitAnswer(ctx, attempt.ID, q.ID, dto.SubmitAnswerRequest{Response: response}); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}
	for i, q := range judgements {
		if i < 8 {
			answer(q, "answer")
		}
	}
	for i, q := range short {
		if i < 5 {
			answer(q, "answer")
		}
	}
	if _, err := f.objective.FinalizeSection(ctx, attempt.ID, model.SectionReading); err != nil {
		t.Fatalf("FinalizeSection: %v", err)
	}

	got, err := f.analysis.GetAnalysis(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if len(got.Strengths) != 1 || got.Strengths[0].QuestionType != string(model.TypeTrueFalseNotGiven) || got.Strengths[0].Accuracy != 0.8 {
		t.Errorf("strengths = %+v, want true_false_not_given at 0.8", got.Strengths)
	}
	if len(got.Weaknesses) != 1 || got.Weaknesses[0].QuestionType != string(model.TypeShortAnswer) || got.Weaknesses[0].Tip == "" {
		t.Errorf("weaknesses = %+v, want short_answer with a tip", got.Weaknesses)
	}
}

func TestGetAnalysisWithoutResults(t *testing.T) {
	f := newFixture(t)
	test := f.test(t, "Academic 1")
	attempt := f.attempt(t, test.ID)

	got, err := f.analysis.GetAnalysis(context.Background(), attempt.ID)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if len(got.Strengths) != 0 || len(got.Weaknesses) != 0 {
		t.Errorf("got %+v, want empty report", got)
	}
	if _, err := f.analysis.GetAnalysis(context.Background(), 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want record not found", err)
	}
}
