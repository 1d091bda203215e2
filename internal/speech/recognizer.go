package speech

import "context"

type RecognitionStatus string

const (
	RecognitionSuccess RecognitionStatus = "Success"
	RecognitionNoMatch RecognitionStatus = "NoMatch"
)

type WordErrorType string

const (
	WordErrorNone             WordErrorType = "None"
	WordErrorMispronunciation WordErrorType = "Mispronunciation"
	WordErrorOmission         WordErrorType = "Omission"
	WordErrorInsertion        WordErrorType = "Insertion"
)

type Word struct {
	Text      string
	Accuracy  float64
	ErrorType WordErrorType
}

// Recognition is the recognizer output with pronunciation assessment.
// Scores are on a 0 to 100 scale.
type Recognition struct {
	Status        RecognitionStatus
	Text          string
	Accuracy      float64
	Fluency       float64
	Completeness  float64
	Pronunciation float64
	Words         []Word
}

// Recognizer is the speech-to-text capability.
type Recognizer interface {
	Recognize(ctx context.Context, pcm []byte, language string) (*Recognition, error)
}
