package client

import (
	"context"

	"gita-assistant/internal/domain/entity"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature *float32
}

func NewGeminiClientFromClient(c *genai.Client, model string, temperature float32) *GeminiClient {
	g := &GeminiClient{client: c, model: model}
	if temperature > 0 {
		g.temperature = &temperature
	}
	return g
}

func (g *GeminiClient) Model() string { return g.model }

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if g.temperature != nil {
		cfg = &genai.GenerateContentConfig{Temperature: g.temperature}
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", entity.NewRemoteError(entity.StageGenerate, err)
	}
	return result.Text(), nil
}
