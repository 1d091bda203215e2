package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider returns a provider even without an API key so the API can
// start; every call then fails with an authentication error.
func NewGeminiProvider(cfg *config.Config) (*GeminiProvider, error) {
	if cfg.AI.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Rubric grading will be non-functional.")
		return &GeminiProvider{}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.AI.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.AI.GeminiModel)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	if p.model == nil {
		return Completion{}, &apperror.GradingError{
			Category: apperror.GradingAuth,
			Err:      errors.New("gemini client not initialized: GEMINI_API_KEY is not set"),
		}
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during rubric grading")
		return Completion{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Completion{}, &apperror.GradingError{Category: apperror.GradingMalformed, Err: errors.New("gemini returned no content")}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	var tokens int
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return Completion{Text: text.String(), TokensUsed: tokens}, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
