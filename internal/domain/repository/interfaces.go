package repository

import (
	"context"
	"time"

	"gita-assistant/internal/domain/entity"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher returns the k nearest documents, best first.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]entity.RetrievedDocument, error)
}

// AIProvider completes a prompt synchronously.
type AIProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// TokenLimiter counts questions per key. Reserve takes a slot and reports whether
// it was within the limit; concurrent callers can never all pass.
type TokenLimiter interface {
	Reserve(ctx context.Context, key string) (bool, error)
}

type ChatStore interface {
	Save(ctx context.Context, record *entity.ChatRecord) error
	List(ctx context.Context, userID string) ([]entity.ChatRecord, error)
	Get(ctx context.Context, userID, chatID string) (*entity.ChatRecord, error)
	Delete(ctx context.Context, userID, chatID string) error
	DeleteAll(ctx context.Context, userID string) (int, error)
}

type UserStore interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, user *entity.User) error
}

type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID string) error
}

type OTPStore interface {
	Put(ctx context.Context, purpose entity.OTPPurpose, email, code string, ttl time.Duration) error
	// Consume returns true and removes the code when it matches.
	Consume(ctx context.Context, purpose entity.OTPPurpose, email, code string) (bool, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
