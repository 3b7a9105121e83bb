package store

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"gita-assistant/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// DefaultOTPMaxFailures is how many wrong guesses burn a pending code.
const DefaultOTPMaxFailures = 5

const otpFailureTTL = 24 * time.Hour

// RedisOTPStore keeps one pending code per purpose and email.
type RedisOTPStore struct {
	client      *redis.Client
	maxFailures int
}

func NewRedisOTPStore(client *redis.Client, maxFailures int) *RedisOTPStore {
	if maxFailures <= 0 {
		maxFailures = DefaultOTPMaxFailures
	}
	return &RedisOTPStore{client: client, maxFailures: maxFailures}
}

func otpKey(purpose entity.OTPPurpose, email string) string {
	return "otp:" + string(purpose) + ":" + email
}

func otpFailuresKey(purpose entity.OTPPurpose, email string) string {
	return "otp_failures:" + string(purpose) + ":" + email
}

// Put replaces any pending code and resets its failure count.
func (s *RedisOTPStore) Put(ctx context.Context, purpose entity.OTPPurpose, email, code string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKey(purpose, email), code, ttl)
		pipe.Del(ctx, otpFailuresKey(purpose, email))
		return nil
	})
	return err
}

// Consume succeeds at most once per issued code: the caller whose DEL removes the key wins.
// Every wrong guess is counted; the code is deleted once maxFailures is reached.
func (s *RedisOTPStore) Consume(ctx context.Context, purpose entity.OTPPurpose, email, code string) (bool, error) {
	key := otpKey(purpose, email)
	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if code == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, s.recordFailure(ctx, purpose, email)
	}
	removed, err := s.client.Del(ctx, key).Result()
	if err != nil || removed != 1 {
		return false, err
	}
	// The counter expires on its own and Put resets it.
	_ = s.client.Del(ctx, otpFailuresKey(purpose, email)).Err()
	return true, nil
}

func (s *RedisOTPStore) recordFailure(ctx context.Context, purpose entity.OTPPurpose, email string) error {
	failuresKey := otpFailuresKey(purpose, email)
	var failures *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		failures = pipe.Incr(ctx, failuresKey)
		pipe.Expire(ctx, failuresKey, otpFailureTTL)
		return nil
	})
	if err != nil {
		return err
	}
	if failures.Val() < int64(s.maxFailures) {
		return nil
	}
	return s.client.Del(ctx, otpKey(purpose, email), failuresKey).Err()
}
