package dto

type StartAttemptRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	TestID uint `json:"test_id" binding:"required"`
}

// SubmitAnswerRequest carries the literal answer. An empty response clears
// the answer and scores it as incorrect.
type SubmitAnswerRequest struct {
	Response string `json:"response"`
}

type WritingSubmissionRequest struct {
	Content string `json:"content" binding:"required"`
}

// SpeakingRecording references stored audio for one prompt.
type SpeakingRecording struct {
	PromptID  uint   `json:"prompt_id" binding:"required"`
	AudioPath string `json:"audio_path" binding:"required"`
}

type SpeakingSubmissionRequest struct {
	Recordings []SpeakingRecording `json:"recordings" binding:"required,min=1,dive"`
}
