package speech

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lshigami/mockexam/internal/apperror"
)

type fakeTranscoder struct {
	pcm []byte
	err error
}

func (f fakeTranscoder) Normalize(ctx context.Context, src string) ([]byte, error) {
	return f.pcm, f.err
}

type fakeRecognizer struct {
	rec      *Recognition
	err      error
	block    bool
	language string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, pcm []byte, language string) (*Recognition, error) {
	f.language = language
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.rec, f.err
}

func newTestStage(tr Transcoder, rec Recognizer) *Stage {
	return &Stage{transcoder: tr, recognizer: rec, language: "en", timeout: time.Second}
}

func TestTranscribeSuccess(t *testing.T) {
	rec := &fakeRecognizer{rec: &Recognition{
		Status:        RecognitionSuccess,
		Text:          " I usually cycle to work ",
		Accuracy:      82,
		Fluency:       75,
		Completeness:  90,
		Pronunciation: 80,
		Words: []Word{
			{Text: "I", Accuracy: 95, ErrorType: WordErrorNone},
			{Text: "usually", Accuracy: 40, ErrorType: WordErrorNone},
			{Text: "cycle", Accuracy: 70, ErrorType: WordErrorMispronunciation},
			{Text: "to", Accuracy: 0, ErrorType: WordErrorOmission},
			{Text: "the", Accuracy: 30, ErrorType: WordErrorInsertion},
		},
	}}
	s := newTestStage(fakeTranscoder{pcm: []byte("pcm")}, rec)

	got, err := s.Transcribe(context.Background(), "answer.webm")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !got.Success || got.Transcript != "I usually cycle to work" {
		t.Errorf("result = %+v", got)
	}
	if got.Accuracy != 82 || got.Fluency != 75 || got.Completeness != 90 || got.Pronunciation != 80 {
		t.Errorf("sub-scores not carried over: %+v", got)
	}
	if !reflect.DeepEqual(got.Issues.Mispronounced, []string{"usually", "cycle"}) {
		t.Errorf("mispronounced = %v", got.Issues.Mispronounced)
	}
	if !reflect.DeepEqual(got.Issues.Omitted, []string{"to"}) {
		t.Errorf("omitted = %v", got.Issues.Omitted)
	}
	if !reflect.DeepEqual(got.Issues.Inserted, []string{"the"}) {
		t.Errorf("inserted = %v", got.Issues.Inserted)
	}
	if rec.language != "en" {
		t.Errorf("language = %q, want en", rec.language)
	}
}

func TestTranscribeNoSpeech(t *testing.T) {
	tests := []struct {
		name string
		rec  *Recognition
	}{
		{"no match", &Recognition{Status: RecognitionNoMatch}},
		{"blank text", &Recognition{Status: RecognitionSuccess, Text: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStage(fakeTranscoder{pcm: []byte("pcm")}, &fakeRecognizer{rec: tt.rec})
			got, err := s.Transcribe(context.Background(), "answer.webm")
			if err != nil {
				t.Fatalf("no speech should not be an error: %v", err)
			}
			if got.Success || got.Accuracy != 0 || got.Transcript != "" {
				t.Errorf("result = %+v, want an empty unsuccessful result", got)
			}
		})
	}
}

func TestTranscribeErrors(t *testing.T) {
	tests := []struct {
		name   string
		tr     Transcoder
		rec    *fakeRecognizer
		reason string
	}{
		{"conversion", fakeTranscoder{err: errors.New("boom")}, &fakeRecognizer{}, "audio conversion failed"},
		{"recognizer", fakeTranscoder{pcm: []byte("pcm")}, &fakeRecognizer{err: errors.New("503")}, "speech recognition failed"},
		{"timeout", fakeTranscoder{pcm: []byte("pcm")}, &fakeRecognizer{block: true}, "speech recognition timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStage(tt.tr, tt.rec)
			s.timeout = 10 * time.Millisecond

			_, err := s.Transcribe(context.Background(), "answer.webm")
			var te *apperror.TranscriptionError
			if !errors.As(err, &te) {
				t.Fatalf("err = %v, want TranscriptionError", err)
			}
			if te.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", te.Reason, tt.reason)
			}
			if !apperror.IsRetryable(err) {
				t.Error("transcription errors should be retryable")
			}
		})
	}
}

func TestClassifyWordsEmpty(t *testing.T) {
	got := ClassifyWords(nil)
	if len(got.Mispronounced) != 0 || len(got.Omitted) != 0 || len(got.Inserted) != 0 {
		t.Errorf("ClassifyWords(nil) = %+v", got)
	}
	if got.Mispronounced == nil {
		t.Error("lists should be empty, not nil, so they serialize as []")
	}
}
