package usecase

import (
	"context"
	"strings"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/domain/repository"
	"gita-assistant/internal/logger"
	"gita-assistant/internal/metrics"
)

const (
	// NoContextFallback replaces an empty result set or a failed embedding.
	NoContextFallback = "No specific context found in the Bhagavad Gita. Providing a general answer based on Krishna's teachings."
	// RetrievalFailedFallback replaces a search that failed on every attempt.
	RetrievalFailedFallback = "Unable to retrieve specific context. Providing a general answer based on Krishna's teachings."

	DefaultTopK = 5
)

// Retriever embeds a query and collects the nearest passages into a Context.
type Retriever struct {
	embedder repository.Embedder
	searcher repository.VectorSearcher
	policy   RetryPolicy
}

func NewRetriever(emb repository.Embedder, vs repository.VectorSearcher, policy RetryPolicy) *Retriever {
	return &Retriever{embedder: emb, searcher: vs, policy: policy}
}

// Retrieve never fails; it returns the joined passages or a fallback text.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) string {
	return r.RetrieveContext(ctx, query, k).Text
}

// RetrieveContext is Retrieve plus how the text was obtained. Retries of the embed
// stage never repeat the search: once a vector exists the search stage owns its own
// retries and fallback under the caller's ctx.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, k int) entity.Context {
	if k <= 0 {
		k = DefaultTopK
	}
	return WithFallback(ctx, r.policy, entity.StageEmbed,
		func(callCtx context.Context) (entity.Context, error) {
			vector, err := r.embedder.CreateEmbedding(callCtx, query)
			if err != nil {
				return entity.Context{}, err
			}
			return r.search(ctx, vector, k), nil
		},
		r.fallback(ctx, entity.RetrievalEmbedFailed, NoContextFallback),
	)
}

func (r *Retriever) search(ctx context.Context, vector []float32, k int) entity.Context {
	return WithFallback(ctx, r.policy, entity.StageSearch,
		func(ctx context.Context) (entity.Context, error) {
			docs, err := r.searcher.Search(ctx, vector, k)
			if err != nil {
				return entity.Context{}, err
			}
			text, used := JoinDocuments(docs)
			if used == 0 {
				logger.FromContext(ctx).Info("No passages matched the query", "fallback", entity.RetrievalEmpty)
				metrics.Fallbacks.WithLabelValues(string(entity.RetrievalEmpty)).Inc()
				return entity.Context{Text: NoContextFallback, Outcome: entity.RetrievalEmpty}, nil
			}
			logger.FromContext(ctx).Debug("Context retrieved", "documents", used, "context_length", len(text))
			return entity.Context{Text: text, Outcome: entity.RetrievalFound, Documents: used}, nil
		},
		r.fallback(ctx, entity.RetrievalSearchFailed, RetrievalFailedFallback),
	)
}

// fallback produces the Context substituted once a stage has exhausted its attempts.
func (r *Retriever) fallback(ctx context.Context, outcome entity.RetrievalOutcome, text string) func(error) entity.Context {
	return func(err error) entity.Context {
		logger.FromContext(ctx).Warn("Retrieval stage exhausted", "fallback", outcome, "error", err)
		metrics.Fallbacks.WithLabelValues(string(outcome)).Inc()
		return entity.Context{Text: text, Outcome: outcome}
	}
}

// JoinDocuments joins the "context" payloads in rank order with single newlines.
// Documents without a passage are skipped; used counts the ones kept.
func JoinDocuments(docs []entity.RetrievedDocument) (text string, used int) {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		passage := d.Text()
		if strings.TrimSpace(passage) == "" {
			continue
		}
		parts = append(parts, passage)
	}
	return strings.Join(parts, "\n"), len(parts)
}
