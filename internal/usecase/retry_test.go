package usecase

import (
	"context"
	"testing"
	"time"

	"gita-assistant/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Do(t *testing.T) {
	t.Run("Should stop at the first success", func(t *testing.T) {
		calls := 0
		err := fastPolicy().Do(context.Background(), entity.StageEmbed, func(context.Context) error {
			calls++
			if calls < 2 {
				return errBoom
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Should return the last error after exhausting attempts", func(t *testing.T) {
		calls := 0
		err := fastPolicy().Do(context.Background(), entity.StageSearch, func(context.Context) error {
			calls++
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 3, calls)
	})

	t.Run("Should make a single attempt when attempts is zero", func(t *testing.T) {
		calls := 0
		p := RetryPolicy{Delay: time.Millisecond}
		_ = p.Do(context.Background(), entity.StageGenerate, func(context.Context) error {
			calls++
			return errBoom
		})
		assert.Equal(t, 1, calls)
	})

	t.Run("Should not retry once the caller context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := fastPolicy().Do(ctx, entity.StageGenerate, func(context.Context) error {
			calls++
			cancel()
			return errBoom
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Should bound each attempt with the call timeout", func(t *testing.T) {
		p := fastPolicy()
		p.Attempts = 1
		p.CallTimeout = 5 * time.Millisecond
		err := p.Do(context.Background(), entity.StageGenerate, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Should accept exponential backoff with jitter", func(t *testing.T) {
		p := RetryPolicy{Attempts: 2, Delay: time.Millisecond, Strategy: RetryExponential, Jitter: true}
		calls := 0
		err := p.Do(context.Background(), entity.StageEmbed, func(context.Context) error {
			calls++
			return errBoom
		})
		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestWithFallback(t *testing.T) {
	t.Run("Should return the value on success", func(t *testing.T) {
		v := WithFallback(context.Background(), fastPolicy(), entity.StageEmbed,
			func(context.Context) (string, error) { return "ok", nil },
			func(error) string { return "fallback" })
		assert.Equal(t, "ok", v)
	})

	t.Run("Should produce the fallback from the last error", func(t *testing.T) {
		var got error
		v := WithFallback(context.Background(), fastPolicy(), entity.StageEmbed,
			func(context.Context) (string, error) { return "", errBoom },
			func(err error) string { got = err; return "fallback" })
		assert.Equal(t, "fallback", v)
		assert.ErrorIs(t, got, errBoom)
	})
}
