package usecase

import (
	"context"
	"errors"
	"strings"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/domain/repository"
	"gita-assistant/internal/logger"
	"gita-assistant/internal/metrics"
)

// GenerationFallback is shown to the user when no model produced an answer.
const GenerationFallback = "I apologize, but I'm having trouble generating a response right now. Please try again later."

var errEmptyCompletion = errors.New("model returned an empty completion")

// Generation is the outcome of one Generate call.
type Generation struct {
	Text     string
	Model    string
	Fallback bool
}

// Generator wraps the completion service with the retry policy and an
// optional secondary model that is tried once after the primary is exhausted.
type Generator struct {
	primary   repository.AIProvider
	secondary repository.AIProvider
	policy    RetryPolicy
}

func NewGenerator(primary, secondary repository.AIProvider, policy RetryPolicy) *Generator {
	return &Generator{primary: primary, secondary: secondary, policy: policy}
}

// Generate never fails; after exhaustion it returns GenerationFallback.
func (g *Generator) Generate(ctx context.Context, prompt string) string {
	return g.GenerateDetailed(ctx, prompt).Text
}

func (g *Generator) GenerateDetailed(ctx context.Context, prompt string) Generation {
	return WithFallback(ctx, g.policy, entity.StageGenerate,
		g.attempt(g.primary, prompt),
		func(err error) Generation {
			logger.FromContext(ctx).Warn("Primary model exhausted", "model", g.primary.Model(), "error", err)
			return g.secondaryOrApology(ctx, prompt)
		},
	)
}

// secondaryOrApology tries the secondary model once and then gives up with the apology.
func (g *Generator) secondaryOrApology(ctx context.Context, prompt string) Generation {
	if g.secondary == nil || ctx.Err() != nil {
		return g.apology(ctx, nil)
	}
	once := RetryPolicy{Attempts: 1, CallTimeout: g.policy.CallTimeout}
	return WithFallback(ctx, once, entity.StageGenerate,
		g.attempt(g.secondary, prompt),
		func(err error) Generation { return g.apology(ctx, err) },
	)
}

func (g *Generator) attempt(p repository.AIProvider, prompt string) func(ctx context.Context) (Generation, error) {
	return func(ctx context.Context) (Generation, error) {
		text, err := complete(ctx, p, prompt)
		if err != nil {
			return Generation{}, err
		}
		return Generation{Text: text, Model: p.Model()}, nil
	}
}

func (g *Generator) apology(ctx context.Context, err error) Generation {
	metrics.Fallbacks.WithLabelValues("generation").Inc()
	logger.FromContext(ctx).Warn("Returning apology text", "fallback", "generation", "error", err)
	return Generation{Text: GenerationFallback, Fallback: true}
}

func complete(ctx context.Context, p repository.AIProvider, prompt string) (string, error) {
	text, err := p.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", entity.NewRemoteError(entity.StageGenerate, errEmptyCompletion)
	}
	return text, nil
}
