package grading

import (
	"context"
	"fmt"

	"github.com/lshigami/mockexam/config"
)

// Completion is the raw reply of a generative model.
type Completion struct {
	Text       string
	TokensUsed int
}

// Provider is the generative AI capability used for rubric grading.
type Provider interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// NewProvider builds the provider named by AI_PROVIDER.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.AI.Provider {
	case "", "gemini":
		return NewGeminiProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg), nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
}
