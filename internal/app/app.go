package app

import (
	"context"
	"errors"
	"fmt"

	"gita-assistant/internal/adapter/client"
	"gita-assistant/internal/adapter/mail"
	"gita-assistant/internal/adapter/store"
	"gita-assistant/internal/config"
	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/domain/repository"
	"gita-assistant/internal/logger"
	"gita-assistant/internal/usecase"

	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

// Container holds every long-lived client and service. Both binaries build
// exactly one and pass it down; nothing is kept in package variables.
type Container struct {
	Config *config.Config
	Logger logger.Logger

	Genai  *genai.Client
	Qdrant *qdrant.Client
	Redis  *redis.Client

	Embedder  repository.Embedder
	Primary   repository.AIProvider
	Secondary repository.AIProvider
	Vectors   *store.QdrantStore

	Pipeline *usecase.Pipeline
	Chats    *usecase.ChatService
	Accounts *usecase.AccountService
}

// RetryPolicy converts the retry section of the configuration.
func RetryPolicy(c config.RetryConfig) usecase.RetryPolicy {
	return usecase.RetryPolicy{
		Attempts:    c.Attempts,
		Delay:       c.Delay,
		Strategy:    usecase.RetryStrategy(c.Strategy),
		Jitter:      c.Jitter,
		CallTimeout: c.CallTimeout,
	}
}

func newGenaiClient(ctx context.Context, c config.LLMConfig) (*genai.Client, error) {
	cc := &genai.ClientConfig{APIKey: c.GoogleAPIKey, Backend: genai.BackendGeminiAPI}
	if c.VertexAI() {
		cc = &genai.ClientConfig{
			Project:  c.GoogleProject,
			Location: c.GoogleRegion,
			Backend:  genai.BackendVertexAI,
		}
	}
	return genai.NewClient(ctx, cc)
}

func newProviders(c config.LLMConfig, g *genai.Client) (primary, secondary repository.AIProvider, err error) {
	temperature := c.Temperature
	switch c.Provider {
	case "gemini":
		primary = client.NewGeminiClientFromClient(g, c.Model, float32(temperature))
		if c.FallbackModel != "" {
			secondary = client.NewGeminiClientFromClient(g, c.FallbackModel, float32(temperature))
		}
	default:
		gc, err := client.NewGroqClient(c.GroqAPIKey, c.GroqBaseURL, c.Model, temperature)
		if err != nil {
			return nil, nil, err
		}
		primary = gc
		if c.FallbackModel != "" {
			fc, err := client.NewGroqClient(c.GroqAPIKey, c.GroqBaseURL, c.FallbackModel, temperature)
			if err != nil {
				return nil, nil, err
			}
			secondary = fc
		}
	}
	return primary, secondary, nil
}

// Build constructs the clients once and wires the pipeline and services.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	g, err := newGenaiClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to init genai client: %w", err)
	}
	c.Genai = g

	qc, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Qdrant.Host,
		Port:   cfg.Qdrant.Port,
		APIKey: cfg.Qdrant.APIKey,
		UseTLS: cfg.Qdrant.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}
	c.Qdrant = qc

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var embedder repository.Embedder = client.NewEmbedderFromClient(g, cfg.Embedder.Model, cfg.Embedder.Dimensions)
	if cfg.Embedder.CacheSize > 0 {
		cached, err := client.NewCachingEmbedder(embedder, cfg.Embedder.CacheSize)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to init embedding cache: %w", err)
		}
		embedder = cached
	}
	c.Embedder = embedder

	c.Primary, c.Secondary, err = newProviders(cfg.LLM, g)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Vectors = store.NewQdrantStore(qc, cfg.Qdrant.Collection)

	policy := RetryPolicy(cfg.Retry)
	c.Pipeline = usecase.NewPipeline(
		usecase.NewRetriever(embedder, c.Vectors, policy),
		usecase.NewPromptAssembler(),
		usecase.NewGenerator(c.Primary, c.Secondary, policy),
		cfg.Retrieval.TopK,
	)

	chats := store.NewRedisChatStore(c.Redis)
	c.Chats = usecase.NewChatService(c.Pipeline, chats, store.NewRedisLimiter(c.Redis, cfg.Limits.DailyMessages))

	var mailer repository.Mailer = mail.NewLogMailer(log)
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	c.Accounts = usecase.NewAccountService(
		store.NewRedisUserStore(c.Redis),
		store.NewRedisSessionStore(c.Redis),
		store.NewRedisOTPStore(c.Redis, cfg.Auth.OTPMaxFailures),
		chats,
		mailer,
		usecase.AccountConfig{
			SessionTTL: cfg.Auth.SessionTTL,
			OTPTTL:     cfg.Auth.OTPTTL,
			OTPLength:  cfg.Auth.OTPLength,
		},
	)
	return c, nil
}

// CheckCollection fails on a missing collection and only logs an unreachable Qdrant.
func (c *Container) CheckCollection(ctx context.Context) error {
	points, err := c.Vectors.CheckCollection(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrConfiguration) {
			return err
		}
		c.Logger.Warn("Qdrant not reachable yet", "error", err)
		return nil
	}
	c.Logger.Info("Qdrant collection ready", "collection", c.Config.Qdrant.Collection, "points", points)
	return nil
}

// Warm sends one embedding and one generation so the first user request is not cold.
func (c *Container) Warm(ctx context.Context) {
	if _, err := c.Embedder.CreateEmbedding(ctx, "warmup"); err != nil {
		c.Logger.Warn("Embedder warm-up failed", "error", err)
	}
	if _, err := c.Primary.Generate(ctx, "."); err != nil {
		c.Logger.Warn("Model warm-up failed", "model", c.Primary.Model(), "error", err)
	}
	c.Logger.Info("Pre-warm complete")
}

func (c *Container) Close() error {
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.Qdrant != nil {
		errs = append(errs, c.Qdrant.Close())
	}
	return errors.Join(errs...)
}
