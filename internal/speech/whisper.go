package speech

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/lshigami/mockexam/config"
	openai "github.com/sashabaranov/go-openai"
)

// noSpeechAbove is the per segment no-speech probability that marks silence.
const noSpeechAbove = 0.6

// repetitionRatio is the compression ratio above which a segment is treated
// as looping or hesitant speech.
const repetitionRatio = 2.4

// WhisperRecognizer adapts an OpenAI-compatible transcription endpoint.
// Whisper reports no phoneme level assessment, so scores are derived from
// segment confidence.
type WhisperRecognizer struct {
	api   *openai.Client
	model string
}

func NewWhisperRecognizer(cfg *config.Config) *WhisperRecognizer {
	clientCfg := openai.DefaultConfig(cfg.Speech.APIKey)
	if cfg.Speech.BaseURL != "" {
		clientCfg.BaseURL = cfg.Speech.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
	model := cfg.Speech.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperRecognizer{api: openai.NewClientWithConfig(clientCfg), model: model}
}

func (w *WhisperRecognizer) Recognize(ctx context.Context, pcm []byte, language string) (*Recognition, error) {
	resp, err := w.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "response.wav",
		Reader:   bytes.NewReader(pcm),
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription API call: %w", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return &Recognition{Status: RecognitionNoMatch}, nil
	}

	rec := &Recognition{Status: RecognitionSuccess, Text: resp.Text}
	if len(resp.Segments) == 0 {
		for _, token := range strings.Fields(resp.Text) {
			rec.Words = append(rec.Words, Word{Text: cleanWord(token), Accuracy: 100, ErrorType: WordErrorNone})
		}
		rec.Accuracy, rec.Fluency, rec.Completeness, rec.Pronunciation = 100, 100, 100, 100
		return rec, nil
	}

	var confSum, fluencySum, speechSum float64
	silent := 0
	for _, seg := range resp.Segments {
		conf := math.Min(1, math.Exp(seg.AvgLogprob)) * 100
		fluency := conf
		if seg.CompressionRatio > repetitionRatio {
			fluency = conf * repetitionRatio / seg.CompressionRatio
		}
		confSum += conf
		fluencySum += fluency
		speechSum += (1 - seg.NoSpeechProb) * 100
		if seg.NoSpeechProb > noSpeechAbove {
			silent++
		}
		for _, token := range strings.Fields(seg.Text) {
			rec.Words = append(rec.Words, Word{Text: cleanWord(token), Accuracy: conf, ErrorType: WordErrorNone})
		}
	}
	if silent == len(resp.Segments) {
		return &Recognition{Status: RecognitionNoMatch}, nil
	}

	n := float64(len(resp.Segments))
	rec.Accuracy = confSum / n
	rec.Fluency = fluencySum / n
	rec.Completeness = speechSum / n
	rec.Pronunciation = (rec.Accuracy + rec.Fluency) / 2
	return rec, nil
}

func cleanWord(token string) string {
	return strings.Trim(token, ".,!?;:\"'()")
}
