package grading

import (
	"fmt"
	"strings"

	"github.com/lshigami/mockexam/internal/model"
)

const systemPrompt = "You are a certified IELTS examiner. You grade strictly against the public band descriptors and reply with JSON only."

var criterionDescriptions = map[string]string{
	model.CriterionTaskAchievement:   "Task Achievement / Response: how fully and relevantly the task is addressed, with a clear position and supported ideas.",
	model.CriterionCoherenceCohesion: "Coherence and Cohesion: logical organisation, paragraphing and the range and accuracy of cohesive devices.",
	model.CriterionFluencyCoherence:  "Fluency and Coherence: ability to speak at length without noticeable effort, hesitation or loss of coherence.",
	model.CriterionLexicalResource:   "Lexical Resource: range, precision and appropriacy of vocabulary, including collocation and paraphrase.",
	model.CriterionGrammaticalRange:  "Grammatical Range and Accuracy: variety of structures and the frequency of errors.",
	model.CriterionPronunciation:     "Pronunciation: intelligibility, word and sentence stress, intonation and individual sounds.",
}

// BuildPrompt renders the grading instructions for one submission.
func BuildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n")

	switch req.Kind {
	case model.KindWriting:
		sb.WriteString(fmt.Sprintf("Evaluate the candidate's response to IELTS Writing Task %d.\n\n", req.TaskNumber))
		sb.WriteString("Task prompt:\n---\n")
		sb.WriteString(req.TaskPrompt)
		sb.WriteString("\n---\n\n")
		if req.MinWords > 0 {
			sb.WriteString(fmt.Sprintf("The task requires at least %d words. The response has %d words; penalise under-length responses under Task Achievement.\n\n", req.MinWords, req.WordCount))
		}
		sb.WriteString("Candidate's response:\n---\n")
		sb.WriteString(req.CandidateText)
		sb.WriteString("\n---\n\n")
	case model.KindSpeaking:
		sb.WriteString("Evaluate the candidate's IELTS Speaking performance from the transcript of their recorded answers.\n\n")
		if len(req.Prompts) > 0 {
			sb.WriteString("Prompts answered:\n")
			for i, p := range req.Prompts {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("Transcript:\n---\n")
		sb.WriteString(req.CandidateText)
		sb.WriteString("\n---\n\n")
		if tr := req.Transcription; tr != nil {
			sb.WriteString("Automatic pronunciation assessment (0-100):\n")
			sb.WriteString(fmt.Sprintf("- Accuracy: %.0f\n- Fluency: %.0f\n- Completeness: %.0f\n- Pronunciation: %.0f\n",
				tr.Accuracy, tr.Fluency, tr.Completeness, tr.Pronunciation))
			writeWordList(&sb, "Mispronounced words", tr.Issues.Mispronounced)
			writeWordList(&sb, "Omitted words", tr.Issues.Omitted)
			writeWordList(&sb, "Inserted words", tr.Issues.Inserted)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Score each criterion from 0 to 9 in steps of 0.5:\n")
	for _, name := range req.Kind.Criteria() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", name, criterionDescriptions[name]))
	}

	sb.WriteString("\nRespond ONLY with a JSON object of this shape:\n")
	sb.WriteString(`{"criteria": {`)
	for i, name := range req.Kind.Criteria() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf(`"%s": {"score": <band>, "feedback": "<comment>"}`, name))
	}
	sb.WriteString(`}, "overall_band": <band>, "feedback": "<specific strengths, errors with corrections, and advice>"}`)
	sb.WriteString("\n")
	return sb.String()
}

func writeWordList(sb *strings.Builder, label string, words []string) {
	if len(words) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("- %s: %s\n", label, strings.Join(words, ", ")))
}
