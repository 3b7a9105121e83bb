package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/domain/repository"
	"gita-assistant/internal/logger"

	"github.com/google/uuid"
)

const (
	titleMaxRunes = 30
	recentWindow  = 7 * 24 * time.Hour
)

// ChatService is the API-facing orchestrator: rate limit, pipeline, parsing and history.
type ChatService struct {
	pipeline     *Pipeline
	chats        repository.ChatStore
	tokenLimiter repository.TokenLimiter
	now          func() time.Time
}

func NewChatService(p *Pipeline, chats repository.ChatStore, tl repository.TokenLimiter) *ChatService {
	return &ChatService{pipeline: p, chats: chats, tokenLimiter: tl, now: time.Now}
}

func (u *ChatService) Execute(ctx context.Context, req entity.ChatRequest) (*entity.ChatResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: no prompt provided", entity.ErrInvalidRequest)
	}
	lang := entity.ParseLanguage(string(req.Language))
	log := logger.FromContext(ctx).With("user_id", req.UserID)

	// 1. Reserve a slot of the daily limit
	if limitKey := rateLimitKey(req); u.tokenLimiter != nil && limitKey != "" {
		allowed, err := u.tokenLimiter.Reserve(ctx, limitKey)
		if err != nil {
			return nil, fmt.Errorf("rate limiter check failed: %w", err)
		}
		if !allowed {
			return nil, entity.ErrRateLimitExceeded
		}
	}

	// 2. Retrieve, augment, generate
	completion := u.pipeline.RunWithPolicy(ctx, prompt, DirectivePolicy{Language: lang})

	// 3. Language-aware post-processing
	parsed := ParseResponse(ctx, completion.Text, lang)
	resp := &entity.ChatResponse{
		Response: parsed.Answer,
		Thinking: parsed.Reasoning,
		Language: lang,
		Fallback: completion.Fallback,
	}

	// 4. History for signed-in users; a storage failure does not cost the user the answer
	if req.UserID != "" && u.chats != nil {
		record := u.newRecord(req.UserID, prompt, lang, completion.Text)
		if err := u.chats.Save(ctx, record); err != nil {
			log.Error("Failed to save chat history", "error", err)
		} else {
			resp.ChatID = record.ID
		}
	}
	return resp, nil
}

func rateLimitKey(req entity.ChatRequest) string {
	if req.UserID != "" {
		return "user:" + req.UserID
	}
	if req.ClientKey != "" {
		return "guest:" + req.ClientKey
	}
	return ""
}

func (u *ChatService) newRecord(userID, prompt string, lang entity.Language, raw string) *entity.ChatRecord {
	now := u.now()
	return &entity.ChatRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      now.Format(time.DateOnly),
		CreatedAt: now.Unix(),
		Title:     ChatTitle(prompt),
		Language:  lang,
		Messages: []entity.ChatMessage{
			{Role: entity.RoleUser, Content: prompt},
			{Role: entity.RoleAssistant, Content: raw},
		},
	}
}

// ChatTitle keeps the first 30 characters of a prompt, marking truncation with "...".
func ChatTitle(prompt string) string {
	if utf8.RuneCountInString(prompt) <= titleMaxRunes {
		return prompt
	}
	return string([]rune(prompt)[:titleMaxRunes]) + "..."
}

// History returns a user's chats, newest first.
func (u *ChatService) History(ctx context.Context, userID string) ([]entity.ChatRecord, error) {
	return u.chats.List(ctx, userID)
}

func (u *ChatService) Chat(ctx context.Context, userID, chatID string) (*entity.ChatRecord, error) {
	return u.chats.Get(ctx, userID, chatID)
}

func (u *ChatService) DeleteChat(ctx context.Context, userID, chatID string) error {
	return u.chats.Delete(ctx, userID, chatID)
}

func (u *ChatService) DeleteAllChats(ctx context.Context, userID string) (int, error) {
	return u.chats.DeleteAll(ctx, userID)
}

func (u *ChatService) Stats(ctx context.Context, userID string) (*entity.ChatStats, error) {
	history, err := u.chats.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &entity.ChatStats{TotalChats: len(history)}
	cutoff := u.now().Add(-recentWindow).Unix()
	for _, c := range history {
		if c.CreatedAt >= cutoff {
			stats.RecentChats++
		}
	}
	if len(history) > 0 {
		last := time.Unix(history[0].CreatedAt, 0).UTC()
		stats.LastChatDate = &last
	}
	return stats, nil
}
