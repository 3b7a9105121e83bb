package usecase

import (
	"context"
	"time"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/logger"
	"gita-assistant/internal/metrics"
)

// Pipeline sequences retrieval, prompt assembly and generation. It does not parse
// the completion: callers apply ParseResponse with their own language policy.
type Pipeline struct {
	retriever *Retriever
	assembler *PromptAssembler
	generator *Generator
	topK      int
}

func NewPipeline(r *Retriever, a *PromptAssembler, g *Generator, topK int) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Pipeline{retriever: r, assembler: a, generator: g, topK: topK}
}

// Run uses ScriptDetectionPolicy, the interactive chat behavior.
func (p *Pipeline) Run(ctx context.Context, query string) *entity.Completion {
	return p.RunWithPolicy(ctx, query, ScriptDetectionPolicy{})
}

// RunWithPolicy always returns a completion with non-empty text. Retrieval uses
// the query as typed; the policy only shapes what is placed in the prompt.
func (p *Pipeline) RunWithPolicy(ctx context.Context, query string, policy PromptPolicy) *entity.Completion {
	start := time.Now()
	shaped, hint := policy.Shape(query)
	log := logger.FromContext(ctx).With("policy", policy.Name(), "language", hint)
	ctx = logger.ContextWithLogger(ctx, log)

	retrieved := p.retriever.RetrieveContext(ctx, query, p.topK)
	prompt := p.assembler.Assemble(retrieved.Text, shaped, hint)
	gen := p.generator.GenerateDetailed(ctx, prompt)

	elapsed := time.Since(start)
	metrics.PipelineDuration.WithLabelValues(policy.Name()).Observe(elapsed.Seconds())
	log.Info("Pipeline finished",
		"retrieval", retrieved.Outcome,
		"documents", retrieved.Documents,
		"model", gen.Model,
		"fallback", gen.Fallback,
		"latency_ms", elapsed.Milliseconds(),
	)
	return &entity.Completion{
		Text:     gen.Text,
		Query:    query,
		Language: hint,
		Context:  retrieved,
		Fallback: gen.Fallback,
		Model:    gen.Model,
		Latency:  elapsed,
	}
}
