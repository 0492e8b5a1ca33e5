package repository

import (
	"context"
	"errors"
	"time"

	"donation-matching-backend/internal/logger"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds retries of idempotent reads. Writes are never retried.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NoRetry runs each read exactly once.
var NoRetry = RetryPolicy{MaxAttempts: 1}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// Read runs fn, retrying with exponential backoff while it fails with
// ErrStoreUnavailable. Any other error is returned immediately.
func Read[T any](ctx context.Context, p RetryPolicy, operation string, fn func() (T, error)) (T, error) {
	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && !errors.Is(err, ErrStoreUnavailable) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	notify := func(err error, _ time.Duration) {
		logger.Retry(operation, attempt, err)
	}
	return backoff.RetryNotifyWithData(op, p.backOff(ctx), notify)
}
