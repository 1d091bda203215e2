package speech

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/rs/zerolog/log"
)

// mispronouncedBelow flags words whose accuracy is under this score even
// when the recognizer reports no error type.
const mispronouncedBelow = 60

// Result is what the pipeline keeps from one recording. Success is false when
// the recognizer heard no speech; all scores are zero then.
type Result struct {
	Success       bool
	Transcript    string
	Accuracy      float64
	Fluency       float64
	Completeness  float64
	Pronunciation float64
	Issues        model.WordIssues
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string) (*Result, error)
}

type Stage struct {
	transcoder Transcoder
	recognizer Recognizer
	language   string
	timeout    time.Duration
}

func NewStage(transcoder Transcoder, recognizer Recognizer, cfg *config.Config) *Stage {
	timeout := cfg.Speech.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	language := cfg.Speech.Language
	if language == "" {
		language = "en"
	}
	return &Stage{transcoder: transcoder, recognizer: recognizer, language: language, timeout: timeout}
}

// Transcribe normalizes the recording at audioRef and runs recognition on it.
// Failures come back as *apperror.TranscriptionError.
func (s *Stage) Transcribe(ctx context.Context, audioRef string) (*Result, error) {
	pcm, err := s.transcoder.Normalize(ctx, audioRef)
	if err != nil {
		var te *apperror.TranscriptionError
		if errors.As(err, &te) {
			return nil, te
		}
		return nil, &apperror.TranscriptionError{Reason: "audio conversion failed", Err: err}
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.recognizer.Recognize(rctx, pcm, s.language)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(rctx.Err(), context.DeadlineExceeded) {
			return nil, &apperror.TranscriptionError{Reason: "speech recognition timed out", Err: err}
		}
		return nil, &apperror.TranscriptionError{Reason: "speech recognition failed", Err: err}
	}

	if rec == nil || rec.Status == RecognitionNoMatch || strings.TrimSpace(rec.Text) == "" {
		log.Info().Str("audio", audioRef).Msg("No speech recognized in recording")
		return &Result{Success: false}, nil
	}

	return &Result{
		Success:       true,
		Transcript:    strings.TrimSpace(rec.Text),
		Accuracy:      rec.Accuracy,
		Fluency:       rec.Fluency,
		Completeness:  rec.Completeness,
		Pronunciation: rec.Pronunciation,
		Issues:        ClassifyWords(rec.Words),
	}, nil
}

// ClassifyWords buckets assessed words. Omission and insertion take
// precedence over the accuracy check.
func ClassifyWords(words []Word) model.WordIssues {
	issues := model.WordIssues{
		Mispronounced: []string{},
		Omitted:       []string{},
		Inserted:      []string{},
	}
	for _, w := range words {
		switch {
		case w.ErrorType == WordErrorOmission:
			issues.Omitted = append(issues.Omitted, w.Text)
		case w.ErrorType == WordErrorInsertion:
			issues.Inserted = append(issues.Inserted, w.Text)
		case w.ErrorType == WordErrorMispronunciation, w.Accuracy < mispronouncedBelow:
			issues.Mispronounced = append(issues.Mispronounced, w.Text)
		}
	}
	return issues
}
