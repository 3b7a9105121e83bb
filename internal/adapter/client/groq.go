package client

import (
	"context"
	"fmt"

	"gita-assistant/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient talks to Groq's OpenAI-compatible endpoint, the host of the
// reasoning models that emit <think> blocks.
type GroqClient struct {
	llm         llms.Model
	model       string
	temperature float64
}

func NewGroqClient(apiKey, baseURL, model string, temperature float64) (*GroqClient, error) {
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithBaseURL(baseURL),
	}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init groq client: %w", err)
	}
	return &GroqClient{llm: llm, model: model, temperature: temperature}, nil
}

// NewGroqClientFromModel wraps an already constructed langchaingo model.
func NewGroqClientFromModel(llm llms.Model, model string) *GroqClient {
	return &GroqClient{llm: llm, model: model}
}

func (g *GroqClient) Model() string { return g.model }

func (g *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	var opts []llms.CallOption
	if g.temperature > 0 {
		opts = append(opts, llms.WithTemperature(g.temperature))
	}
	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, opts...)
	if err != nil {
		return "", entity.NewRemoteError(entity.StageGenerate, err)
	}
	return text, nil
}
