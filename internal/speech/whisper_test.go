package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestWhisper(t *testing.T, body string) *WhisperRecognizer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &WhisperRecognizer{api: openai.NewClientWithConfig(cfg), model: openai.Whisper1}
}

func TestWhisperRecognize(t *testing.T) {
	w := newTestWhisper(t, `{
		"text": "I live in a small town.",
		"segments": [
			{"id": 0, "text": "I live in a small town.", "avg_logprob": 0, "compression_ratio": 1.2, "no_speech_prob": 0.05}
		]
	}`)

	rec, err := w.Recognize(context.Background(), []byte("pcm"), "en")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if rec.Status != RecognitionSuccess {
		t.Fatalf("status = %s, want Success", rec.Status)
	}
	if len(rec.Words) != 6 || rec.Words[5].Text != "town" {
		t.Errorf("words = %+v", rec.Words)
	}
	if rec.Accuracy != 100 {
		t.Errorf("accuracy = %v, want 100 for a zero log probability", rec.Accuracy)
	}
	if rec.Completeness < 94 || rec.Completeness > 96 {
		t.Errorf("completeness = %v, want about 95", rec.Completeness)
	}
}

func TestWhisperRecognizeSilence(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"text": "", "segments": []}`},
		{"silent segments", `{"text": "you", "segments": [{"id": 0, "text": "you", "avg_logprob": -1.2, "no_speech_prob": 0.9}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := newTestWhisper(t, tt.body).Recognize(context.Background(), []byte("pcm"), "en")
			if err != nil {
				t.Fatalf("Recognize: %v", err)
			}
			if rec.Status != RecognitionNoMatch {
				t.Errorf("status = %s, want NoMatch", rec.Status)
			}
		})
	}
}
