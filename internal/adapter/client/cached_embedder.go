package client

import (
	"context"
	"strings"

	"gita-assistant/internal/domain/repository"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingEmbedder memoizes query embeddings so repeated questions skip the remote call.
type CachingEmbedder struct {
	next  repository.Embedder
	cache *lru.Cache[string, []float32]
}

func NewCachingEmbedder(next repository.Embedder, size int) (*CachingEmbedder, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachingEmbedder{next: next, cache: cache}, nil
}

func (c *CachingEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := strings.TrimSpace(text)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.next.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}

func (c *CachingEmbedder) Len() int { return c.cache.Len() }
