package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/resilience"
)

// ResilienceConfig bundles optional policies. Nil fields are skipped.
type ResilienceConfig struct {
	RateLimiter    *resilience.RateLimiterConfig
	Bulkhead       *resilience.BulkheadConfig
	CircuitBreaker *resilience.CircuitBreakerConfig
	Retry          *resilience.RetryConfig
}

// IsEmpty reports whether no policy is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.RateLimiter == nil && c.Bulkhead == nil && c.CircuitBreaker == nil && c.Retry == nil
}

type retryable interface {
	IsRetryable() bool
}

// RetryIfRetryable retries errors that mark themselves retryable (AppError
// and httpclient errors) and plain errors that are not context errors.
func RetryIfRetryable(err error) bool {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.Retryable
	}
	var r retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return resilience.DefaultRetryIf(err)
}

// WithResilience applies policies outermost first: rate limiter, bulkhead,
// retry, then the circuit breaker around each attempt.
func WithResilience[I, O any](cfg ResilienceConfig) Middleware[I, O] {
	if cfg.IsEmpty() {
		return nil
	}
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		r := &resilientRR[I, O]{wrapped: wrapped[I, O]{inner}}
		if cfg.RateLimiter != nil {
			r.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
		}
		if cfg.Bulkhead != nil {
			r.bh = resilience.NewBulkhead(*cfg.Bulkhead)
		}
		if cfg.CircuitBreaker != nil {
			r.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
		}
		if cfg.Retry != nil {
			rc := *cfg.Retry
			if rc.RetryIf == nil {
				rc.RetryIf = RetryIfRetryable
			}
			r.retry = &rc
		}
		return r
	}
}

type resilientRR[I, O any] struct {
	wrapped[I, O]
	rl    *resilience.RateLimiter
	bh    *resilience.Bulkhead
	cb    *resilience.CircuitBreaker
	retry *resilience.RetryConfig
}

// IsAvailable is false while the circuit is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if r.cb != nil && r.cb.State() == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	var zero O
	if r.rl != nil {
		if err := r.rl.Wait(ctx); err != nil {
			return zero, err
		}
	}
	if r.bh == nil {
		return r.withRetry(ctx, input)
	}
	var out O
	err := r.bh.Execute(ctx, func() error {
		var err error
		out, err = r.withRetry(ctx, input)
		return err
	})
	return out, err
}

func (r *resilientRR[I, O]) withRetry(ctx context.Context, input I) (O, error) {
	if r.retry == nil {
		return r.attempt(ctx, input)
	}
	return resilience.Retry(ctx, *r.retry, func() (O, error) {
		return r.attempt(ctx, input)
	})
}

func (r *resilientRR[I, O]) attempt(ctx context.Context, input I) (O, error) {
	if r.cb == nil {
		return r.inner.Execute(ctx, input)
	}
	var out O
	err := r.cb.Execute(func() error {
		var err error
		out, err = r.inner.Execute(ctx, input)
		return err
	})
	return out, err
}
