package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Test{},
		&QuestionGroup{},
		&Question{},
		&Choice{},
		&WritingTask{},
		&SpeakingPrompt{},
		&ExamAttempt{},
		&Answer{},
		&SectionResult{},
		&WritingAttempt{},
		&SpeakingAttempt{},
		&SpeakingAnswer{},
	}
}
