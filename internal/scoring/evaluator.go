package scoring

import (
	"sort"
	"strings"

	"github.com/lshigami/mockexam/internal/model"
	"github.com/rs/zerolog/log"
)

// Result is the verdict on one objective answer. Score points are earned out
// of Weight possible; only multi-select questions weigh more than one.
type Result struct {
	IsCorrect bool
	Score     float64
	Weight    float64
}

// singleAnswerTypes compare case-insensitively against pipe separated alternatives.
var singleAnswerTypes = map[model.QuestionType]bool{
	model.TypeTrueFalseNotGiven:  true,
	model.TypeYesNoNotGiven:      true,
	model.TypeSentenceCompletion: true,
	model.TypeSummaryCompletion:  true,
	model.TypeNoteCompletion:     true,
	model.TypeTableCompletion:    true,
	model.TypeShortAnswer:        true,
	model.TypeMultipleChoice:     true,
}

// exactMatchTypes compare the whole trimmed answer key.
var exactMatchTypes = map[model.QuestionType]bool{
	model.TypeMatchingHeadings:        true,
	model.TypeMatchingInformation:     true,
	model.TypeMatchingFeatures:        true,
	model.TypeMatchingSentenceEndings: true,
	model.TypeFlowChartCompletion:     true,
	model.TypeDiagramLabeling:         true,
	model.TypeFormCompletion:          true,
}

// KnownType reports whether t belongs to the supported catalogue.
func KnownType(t model.QuestionType) bool {
	return t == model.TypeMultipleChoiceMulti || singleAnswerTypes[t] || exactMatchTypes[t]
}

// Evaluate judges literal against q. It has no side effects besides logging
// unknown question types, which always score as incorrect.
func Evaluate(q model.Question, literal string) Result {
	switch {
	case q.Type == model.TypeMultipleChoiceMulti:
		return evaluateMultiSelect(q, literal)
	case singleAnswerTypes[q.Type]:
		return binary(matchesAlternative(q, literal))
	case exactMatchTypes[q.Type]:
		return binary(matchesExact(CorrectAnswer(q), literal))
	}
	log.Warn().Uint("questionID", q.ID).Str("type", string(q.Type)).Msg("Unknown question type, scoring as incorrect")
	return Result{Weight: 1}
}

func binary(ok bool) Result {
	if ok {
		return Result{IsCorrect: true, Score: 1, Weight: 1}
	}
	return Result{Weight: 1}
}

// CorrectAnswer resolves the answer key of q. Choices marked correct win over
// the stored string; their letters follow choice order (A, B, C, ...).
func CorrectAnswer(q model.Question) string {
	if letters := correctLetters(q.Choices); len(letters) > 0 {
		return strings.Join(letters, ",")
	}
	return q.CorrectAnswer
}

func orderedChoices(choices []model.Choice) []model.Choice {
	ordered := make([]model.Choice, len(choices))
	copy(ordered, choices)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })
	return ordered
}

func correctLetters(choices []model.Choice) []string {
	var letters []string
	for i, c := range orderedChoices(choices) {
		if c.IsCorrect {
			letters = append(letters, string(rune('A'+i)))
		}
	}
	return letters
}

func alternatives(key string) []string {
	var out []string
	for _, alt := range strings.Split(key, "|") {
		if alt = normalize(alt); alt != "" {
			out = append(out, alt)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesAlternative(q model.Question, literal string) bool {
	candidate := normalize(literal)
	if candidate == "" {
		return false
	}
	accepted := alternatives(CorrectAnswer(q))
	if q.Type == model.TypeMultipleChoice {
		for _, c := range q.Choices {
			if c.IsCorrect {
				accepted = append(accepted, normalize(c.Text))
			}
		}
	}
	for _, alt := range accepted {
		if alt == candidate {
			return true
		}
		if q.Type == model.TypeShortAnswer && (strings.Contains(candidate, alt) || strings.Contains(alt, candidate)) {
			return true
		}
	}
	return false
}

func matchesExact(key, literal string) bool {
	candidate := normalize(literal)
	return candidate != "" && candidate == normalize(key)
}

// letterSet collects the option letters mentioned in s, so "A, C", "a|c"
// and "AC" all mean {A, C}.
func letterSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			set[r] = true
		}
	}
	return set
}

// evaluateMultiSelect gives one point per correct letter and takes one away
// per wrong letter, never going below zero.
func evaluateMultiSelect(q model.Question, literal string) Result {
	correct := letterSet(CorrectAnswer(q))
	if len(correct) == 0 {
		log.Warn().Uint("questionID", q.ID).Msg("Multi-select question has no answer key, scoring as incorrect")
		return Result{Weight: 1}
	}
	chosen := letterSet(literal)

	hits, misses := 0, 0
	for r := range chosen {
		if correct[r] {
			hits++
		} else {
			misses++
		}
	}
	score := hits - misses
	if score < 0 {
		score = 0
	}
	weight := len(correct)
	return Result{
		IsCorrect: score == weight,
		Score:     float64(score),
		Weight:    float64(weight),
	}
}
