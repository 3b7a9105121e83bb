package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gita-assistant/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// RedisUserStore keeps each user as a JSON document with a unique email index.
type RedisUserStore struct {
	client *redis.Client
}

func NewRedisUserStore(client *redis.Client) *RedisUserStore {
	return &RedisUserStore{client: client}
}

func userKey(id string) string         { return "user:" + id }
func userEmailKey(email string) string { return "user:email:" + email }

func (s *RedisUserStore) Create(ctx context.Context, user *entity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	claimed, err := s.client.SetNX(ctx, userEmailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return entity.ErrUserExists
	}
	if err := s.client.Set(ctx, userKey(user.ID), data, 0).Err(); err != nil {
		s.client.Del(ctx, userEmailKey(user.Email))
		return err
	}
	return nil
}

func (s *RedisUserStore) GetByID(ctx context.Context, id string) (*entity.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	var user entity.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &user, nil
}

func (s *RedisUserStore) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	id, err := s.client.Get(ctx, userEmailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *RedisUserStore) Update(ctx context.Context, user *entity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	updated, err := s.client.SetXX(ctx, userKey(user.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return entity.ErrResourceNotFound
	}
	return nil
}

func (s *RedisUserStore) Delete(ctx context.Context, user *entity.User) error {
	return s.client.Del(ctx, userKey(user.ID), userEmailKey(user.Email)).Err()
}
