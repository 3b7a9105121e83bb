package client

import (
	"context"
	"errors"

	"gita-assistant/internal/domain/entity"

	"google.golang.org/genai"
)

// Embedder turns query text into a vector with a Gemini embedding model.
type Embedder struct {
	client     *genai.Client
	model      string // e.g., "text-embedding-004"
	dimensions int32
}

func NewEmbedderFromClient(c *genai.Client, model string, dimensions int) *Embedder {
	return &Embedder{
		client:     c,
		model:      model,
		dimensions: int32(dimensions), // #nosec G115 -- validated by config
	}
}

func (e *Embedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	cfg := &genai.EmbedContentConfig{TaskType: "RETRIEVAL_QUERY"}
	if e.dimensions > 0 {
		cfg.OutputDimensionality = &e.dimensions
	}
	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), cfg)
	if err != nil {
		return nil, entity.NewRemoteError(entity.StageEmbed, err)
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, entity.NewRemoteError(entity.StageEmbed, errors.New("empty embedding"))
	}
	return res.Embeddings[0].Values, nil
}
