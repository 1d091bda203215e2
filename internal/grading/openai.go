package grading

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	api   *openai.Client
	model string
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.AI.OpenAIAPIKey)
	if cfg.AI.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.AI.OpenAIBaseURL
	}
	// One verified TLS transport. Certificate failures surface as errors.
	clientCfg.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
	return &OpenAIProvider{api: openai.NewClientWithConfig(clientCfg), model: cfg.AI.OpenAIModel}
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := p.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		log.Error().Err(err).Str("model", p.model).Msg("OpenAI API error during rubric grading")
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, &apperror.GradingError{Category: apperror.GradingMalformed, Err: errors.New("LLM returned no choices")}
	}
	return Completion{Text: resp.Choices[0].Message.Content, TokensUsed: resp.Usage.TotalTokens}, nil
}
