package usecase

import (
	"context"
	"time"

	"gita-assistant/internal/logger"
	"gita-assistant/internal/metrics"

	"github.com/sethvargo/go-retry"
)

type RetryStrategy string

const (
	RetryFixed       RetryStrategy = "fixed"
	RetryExponential RetryStrategy = "exponential"
)

// RetryPolicy bounds every remote call of the pipeline.
type RetryPolicy struct {
	Attempts    int
	Delay       time.Duration
	Strategy    RetryStrategy
	Jitter      bool
	CallTimeout time.Duration // per attempt, zero disables
}

// DefaultRetryPolicy is three attempts two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:    3,
		Delay:       2 * time.Second,
		Strategy:    RetryFixed,
		CallTimeout: 30 * time.Second,
	}
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

func (p RetryPolicy) backoff() retry.Backoff {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}
	var b retry.Backoff
	if p.Strategy == RetryExponential {
		b = retry.NewExponential(delay)
	} else {
		b = retry.NewConstant(delay)
	}
	if p.Jitter {
		b = retry.WithJitterPercent(20, b)
	}
	return retry.WithMaxRetries(uint64(p.attempts()-1), b) // #nosec G115 -- attempts is at least 1
}

// Do runs fn until it succeeds or the attempts are exhausted and returns the last error.
// A cancelled ctx stops retrying immediately.
func (p RetryPolicy) Do(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	log := logger.FromContext(ctx).With("stage", stage)
	maxAttempts := p.attempts()
	attempt := 0
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		callCtx := ctx
		if p.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.CallTimeout)
			defer cancel()
		}
		err := fn(callCtx)
		if err == nil {
			metrics.RemoteAttempts.WithLabelValues(stage, metrics.OutcomeSuccess).Inc()
			return nil
		}
		metrics.RemoteAttempts.WithLabelValues(stage, metrics.OutcomeFailure).Inc()
		log.Warn("Remote call failed", "attempt", attempt, "max_attempts", maxAttempts, "error", err)
		if ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
}

// Retry is Do for calls that produce a value.
func Retry[T any](ctx context.Context, p RetryPolicy, stage string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, stage, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// WithFallback never fails: after exhaustion it returns fallback(lastErr).
func WithFallback[T any](
	ctx context.Context,
	p RetryPolicy,
	stage string,
	fn func(ctx context.Context) (T, error),
	fallback func(err error) T,
) T {
	v, err := Retry(ctx, p, stage, fn)
	if err != nil {
		return fallback(err)
	}
	return v
}
