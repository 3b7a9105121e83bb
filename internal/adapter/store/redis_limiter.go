package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter caps the number of questions a user or guest may ask per UTC day.
type RedisLimiter struct {
	client *redis.Client
	limit  int // Max messages per day, zero disables the limit
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		now:    time.Now,
	}
}

func (r *RedisLimiter) usageKey(key string) string {
	return "usage:" + key + ":" + r.now().UTC().Format(time.DateOnly)
}

// Reserve increments the day's counter first and compares afterwards, so the check
// and the use are one atomic step. Refused requests still count.
func (r *RedisLimiter) Reserve(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	usageKey := r.usageKey(key)
	var usage *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		usage = pipe.Incr(ctx, usageKey)
		pipe.Expire(ctx, usageKey, 48*time.Hour)
		return nil
	})
	if err != nil {
		return false, err
	}
	return usage.Val() <= int64(r.limit), nil
}
