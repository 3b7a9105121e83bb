package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gita-assistant/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// RedisChatStore keeps chat records as JSON documents, indexed per user by a
// sorted set scored with the creation time.
type RedisChatStore struct {
	client *redis.Client
}

func NewRedisChatStore(client *redis.Client) *RedisChatStore {
	return &RedisChatStore{client: client}
}

func chatKey(id string) string          { return "chat:" + id }
func userChatsKey(userID string) string { return "chats:" + userID }

func (s *RedisChatStore) Save(ctx context.Context, record *entity.ChatRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode chat: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, chatKey(record.ID), data, 0)
		pipe.ZAdd(ctx, userChatsKey(record.UserID), redis.Z{Score: float64(record.CreatedAt), Member: record.ID})
		return nil
	})
	return err
}

func (s *RedisChatStore) List(ctx context.Context, userID string) ([]entity.ChatRecord, error) {
	ids, err := s.client.ZRevRange(ctx, userChatsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.ChatRecord{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = chatKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]entity.ChatRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // index entry without a document
		}
		var rec entity.ChatRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode chat %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisChatStore) Get(ctx context.Context, userID, chatID string) (*entity.ChatRecord, error) {
	data, err := s.client.Get(ctx, chatKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec entity.ChatRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode chat %s: %w", chatID, err)
	}
	if rec.UserID != userID {
		return nil, entity.ErrResourceNotFound
	}
	return &rec, nil
}

func (s *RedisChatStore) Delete(ctx context.Context, userID, chatID string) error {
	removed, err := s.client.ZRem(ctx, userChatsKey(userID), chatID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return entity.ErrResourceNotFound
	}
	return s.client.Del(ctx, chatKey(chatID)).Err()
}

func (s *RedisChatStore) DeleteAll(ctx context.Context, userID string) (int, error) {
	ids, err := s.client.ZRange(ctx, userChatsKey(userID), 0, -1).Result()
	if err != nil {
		return 0, err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, chatKey(id))
	}
	keys = append(keys, userChatsKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, err
	}
	return len(ids), nil
}
