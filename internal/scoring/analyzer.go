package scoring

import (
	"sort"

	"github.com/lshigami/mockexam/internal/model"
)

const (
	StrengthThreshold = 0.80
	WeaknessThreshold = 0.50
	// concentrationGap is how far later listening parts may trail earlier ones.
	concentrationGap = 0.20
)

// Analysis is weighted accuracy of one section, per question type and per part.
type Analysis struct {
	ByType map[model.QuestionType]model.AccuracyStat
	ByPart map[int]model.AccuracyStat
}

// Analyze tallies weighted correctness. Stored answers contribute their saved
// score and weight; unanswered questions contribute their weight with no points.
func Analyze(questions []model.Question, answers map[uint]model.Answer) Analysis {
	out := Analysis{
		ByType: make(map[model.QuestionType]model.AccuracyStat),
		ByPart: make(map[int]model.AccuracyStat),
	}
	for _, q := range questions {
		var earned, possible float64
		if a, ok := answers[q.ID]; ok && a.Weight > 0 {
			earned, possible = a.Score, a.Weight
		} else {
			res := Evaluate(q, "")
			earned, possible = res.Score, res.Weight
		}
		typeStat := out.ByType[q.Type]
		typeStat.Earned += earned
		typeStat.Possible += possible
		out.ByType[q.Type] = typeStat

		partStat := out.ByPart[q.Part()]
		partStat.Earned += earned
		partStat.Possible += possible
		out.ByPart[q.Part()] = partStat
	}
	return out
}

type SectionAnalysis struct {
	Section  model.Section
	Analysis Analysis
}

type FindingKind string

const (
	FindingQuestionType      FindingKind = "question_type"
	FindingConcentrationDrop FindingKind = "concentration_drop"
)

type Finding struct {
	Section      model.Section      `json:"section"`
	Kind         FindingKind        `json:"kind"`
	QuestionType model.QuestionType `json:"question_type,omitempty"`
	Accuracy     float64            `json:"accuracy"`
	Tip          string             `json:"tip,omitempty"`
}

type Report struct {
	Strengths  []Finding `json:"strengths"`
	Weaknesses []Finding `json:"weaknesses"`
}

// Classify turns section analyses into strengths and weaknesses. Both
// thresholds are inclusive.
func Classify(sections []SectionAnalysis) Report {
	var report Report
	for _, s := range sections {
		types := make([]model.QuestionType, 0, len(s.Analysis.ByType))
		for t := range s.Analysis.ByType {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		for _, t := range types {
			stat := s.Analysis.ByType[t]
			if stat.Possible == 0 {
				continue
			}
			rate := stat.Rate()
			finding := Finding{Section: s.Section, Kind: FindingQuestionType, QuestionType: t, Accuracy: rate}
			switch {
			case rate >= StrengthThreshold:
				report.Strengths = append(report.Strengths, finding)
			case rate <= WeaknessThreshold:
				finding.Tip = tipFor(t)
				report.Weaknesses = append(report.Weaknesses, finding)
			}
		}

		if s.Section == model.SectionListening {
			if f, ok := concentrationDrop(s.Analysis.ByPart); ok {
				report.Weaknesses = append(report.Weaknesses, f)
			}
		}
	}
	return report
}

// concentrationDrop compares the mean part accuracy of the first half of the
// parts with the rest. An odd middle part belongs to the second half.
func concentrationDrop(byPart map[int]model.AccuracyStat) (Finding, bool) {
	parts := make([]int, 0, len(byPart))
	for p, stat := range byPart {
		if stat.Possible > 0 {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return Finding{}, false
	}
	sort.Ints(parts)

	half := len(parts) / 2
	early := meanRate(byPart, parts[:half])
	late := meanRate(byPart, parts[half:])
	if early-late <= concentrationGap {
		return Finding{}, false
	}
	return Finding{
		Section:  model.SectionListening,
		Kind:     FindingConcentrationDrop,
		Accuracy: late,
		Tip:      "Accuracy falls in the later recordings. Practise full-length listening tests to build stamina and re-focus before each part.",
	}, true
}

func meanRate(byPart map[int]model.AccuracyStat, parts []int) float64 {
	var sum float64
	for _, p := range parts {
		sum += byPart[p].Rate()
	}
	return sum / float64(len(parts))
}

var tips = map[model.QuestionType]string{
	model.TypeTrueFalseNotGiven:       "Separate what the passage contradicts (False) from what it never mentions (Not Given).",
	model.TypeYesNoNotGiven:           "Judge the writer's opinion, not the facts. Look for attitude words and hedging.",
	model.TypeMultipleChoice:          "Eliminate distractors that repeat passage words but change the meaning.",
	model.TypeMultipleChoiceMulti:     "Check every option against the text. Each wrong pick costs a correct one.",
	model.TypeMatchingHeadings:        "Read the first and last sentence of each paragraph to find its main idea.",
	model.TypeMatchingInformation:     "Scan for specific details such as dates, names and examples rather than main ideas.",
	model.TypeMatchingFeatures:        "Underline each name in the passage first, then match the statements around it.",
	model.TypeMatchingSentenceEndings: "Use grammar as well as meaning: the ending must complete the sentence correctly.",
	model.TypeSentenceCompletion:      "Predict the word class of the gap and respect the word limit.",
	model.TypeSummaryCompletion:       "Locate the summarised section first, then look for paraphrases of the gap.",
	model.TypeNoteCompletion:          "Follow the note headings; answers usually appear in order.",
	model.TypeTableCompletion:         "Use row and column headings to predict the kind of answer needed.",
	model.TypeFlowChartCompletion:     "Track the sequence of steps and listen for signposting language.",
	model.TypeDiagramLabeling:         "Study the diagram before the audio starts and note directional language.",
	model.TypeFormCompletion:          "Practise spelling names, numbers and addresses as they are dictated.",
	model.TypeShortAnswer:             "Answer with the exact words from the source and keep within the word limit.",
}

const genericTip = "Review the questions you missed and practise this question type under timed conditions."

func tipFor(t model.QuestionType) string {
	if tip, ok := tips[t]; ok {
		return tip
	}
	return genericTip
}
