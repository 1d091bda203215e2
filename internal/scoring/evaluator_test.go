package scoring

import (
	"testing"

	"github.com/lshigami/mockexam/internal/model"
)

func choiceQuestion(typ model.QuestionType, correct ...int) model.Question {
	q := model.Question{ID: 1, Type: typ}
	for i := 0; i < 5; i++ {
		c := model.Choice{Position: i + 1, Text: string(rune('a' + i))}
		for _, idx := range correct {
			if idx == i {
				c.IsCorrect = true
			}
		}
		q.Choices = append(q.Choices, c)
	}
	return q
}

func TestEvaluateSingleAnswer(t *testing.T) {
	tests := []struct {
		name   string
		q      model.Question
		answer string
		want   bool
	}{
		{"tfng exact", model.Question{Type: model.TypeTrueFalseNotGiven, CorrectAnswer: "NOT GIVEN"}, "not given", true},
		{"tfng trimmed", model.Question{Type: model.TypeTrueFalseNotGiven, CorrectAnswer: "TRUE"}, "  true ", true},
		{"tfng wrong", model.Question{Type: model.TypeTrueFalseNotGiven, CorrectAnswer: "TRUE"}, "false", false},
		{"completion alternative", model.Question{Type: model.TypeSentenceCompletion, CorrectAnswer: "car park|parking lot"}, "Parking Lot", true},
		{"completion no substring", model.Question{Type: model.TypeNoteCompletion, CorrectAnswer: "river"}, "the river", false},
		{"short answer contains key", model.Question{Type: model.TypeShortAnswer, CorrectAnswer: "river"}, "the river", true},
		{"short answer key contains answer", model.Question{Type: model.TypeShortAnswer, CorrectAnswer: "the old bridge"}, "old bridge", true},
		{"short answer empty", model.Question{Type: model.TypeShortAnswer, CorrectAnswer: "river"}, "   ", false},
		{"single choice letter", choiceQuestion(model.TypeMultipleChoice, 1), "b", true},
		{"single choice text", choiceQuestion(model.TypeMultipleChoice, 2), "C", true},
		{"single choice wrong", choiceQuestion(model.TypeMultipleChoice, 1), "A", false},
		{"matching exact", model.Question{Type: model.TypeMatchingHeadings, CorrectAnswer: "iv"}, "IV", true},
		{"matching no alternatives", model.Question{Type: model.TypeMatchingFeatures, CorrectAnswer: "A|B"}, "A", false},
		{"unknown type", model.Question{Type: "essay", CorrectAnswer: "x"}, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.q, tt.answer)
			if got.IsCorrect != tt.want {
				t.Errorf("Evaluate() correct = %v, want %v", got.IsCorrect, tt.want)
			}
			if got.Weight != 1 {
				t.Errorf("Evaluate() weight = %v, want 1", got.Weight)
			}
			wantScore := 0.0
			if tt.want {
				wantScore = 1
			}
			if got.Score != wantScore {
				t.Errorf("Evaluate() score = %v, want %v", got.Score, wantScore)
			}
		})
	}
}

func TestEvaluateMultiSelect(t *testing.T) {
	q := model.Question{Type: model.TypeMultipleChoiceMulti, CorrectAnswer: "A,C,E"}

	tests := []struct {
		answer    string
		wantScore float64
		correct   bool
	}{
		{"A, C, E", 3, true},
		{"ace", 3, true},
		{"A C", 2, false},
		{"A, B", 0, false},
		{"A, C, B", 1, false},
		{"B, D", 0, false},
		{"A,B,C,D,E", 1, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got := Evaluate(q, tt.answer)
			if got.Weight != 3 {
				t.Fatalf("weight = %v, want 3", got.Weight)
			}
			if got.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Score < 0 || got.Score > got.Weight {
				t.Errorf("score %v outside [0, %v]", got.Score, got.Weight)
			}
			if got.IsCorrect != tt.correct {
				t.Errorf("correct = %v, want %v", got.IsCorrect, tt.correct)
			}
		})
	}
}

func TestEvaluateMultiSelectFromChoices(t *testing.T) {
	q := choiceQuestion(model.TypeMultipleChoiceMulti, 0, 3)
	q.CorrectAnswer = "B"

	got := Evaluate(q, "D|A")
	if got.Weight != 2 || got.Score != 2 || !got.IsCorrect {
		t.Errorf("Evaluate() = %+v, want full credit out of 2", got)
	}
}

func TestCorrectAnswerFollowsChoiceOrder(t *testing.T) {
	q := model.Question{Type: model.TypeMultipleChoiceMulti, Choices: []model.Choice{
		{Position: 3, Text: "third", IsCorrect: true},
		{Position: 1, Text: "first", IsCorrect: true},
		{Position: 2, Text: "second"},
	}}
	if got := CorrectAnswer(q); got != "A,C" {
		t.Errorf("CorrectAnswer() = %q, want %q", got, "A,C")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	q := model.Question{Type: model.TypeMultipleChoiceMulti, CorrectAnswer: "B,D"}
	first := Evaluate(q, "B, C")
	for i := 0; i < 3; i++ {
		if got := Evaluate(q, "B, C"); got != first {
			t.Fatalf("Evaluate() run %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestKnownType(t *testing.T) {
	known := []model.QuestionType{
		model.TypeTrueFalseNotGiven, model.TypeYesNoNotGiven, model.TypeMultipleChoice,
		model.TypeMultipleChoiceMulti, model.TypeMatchingHeadings, model.TypeMatchingInformation,
		model.TypeMatchingFeatures, model.TypeMatchingSentenceEndings, model.TypeSentenceCompletion,
		model.TypeSummaryCompletion, model.TypeNoteCompletion, model.TypeTableCompletion,
		model.TypeFlowChartCompletion, model.TypeDiagramLabeling, model.TypeFormCompletion,
		model.TypeShortAnswer,
	}
	for _, typ := range known {
		if !KnownType(typ) {
			t.Errorf("KnownType(%q) = false", typ)
		}
	}
	if KnownType("essay") {
		t.Error(`KnownType("essay") = true`)
	}
}
