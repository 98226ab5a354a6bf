package research

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for search tasks
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	RetryableErrors func(error) bool // Determines if an error should trigger retry
}

// DefaultRetryConfig returns the retry configuration used when Config.Retry
// is nil
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: func(err error) bool {
			// Caller cancellation is never worth retrying
			return !errors.Is(err, context.Canceled)
		},
	}
}

// retrySearch runs fn until it succeeds, the error is classified as
// non-retryable, or the attempt budget is spent. Delays grow exponentially
// up to MaxDelay with ±25% jitter so sibling tasks do not retry in lockstep.
func retrySearch(ctx context.Context, cfg *RetryConfig, query string, fn func(context.Context) ([]Document, error)) ([]Document, error) {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("search cancelled: %w", ctx.Err())
		default:
		}

		docs, err := fn(ctx)
		if err == nil {
			return docs, nil
		}

		lastErr = err

		if cfg.RetryableErrors != nil && !cfg.RetryableErrors(err) {
			return nil, fmt.Errorf("non-retryable error for %q: %w", query, err)
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts {
			select {
			case <-time.After(jittered(delay)):
				delay = min(time.Duration(float64(delay)*cfg.BackoffFactor), cfg.MaxDelay)
			case <-ctx.Done():
				return nil, fmt.Errorf("search cancelled during backoff: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded for %q: %w", cfg.MaxAttempts, query, lastErr)
}

// jittered spreads a delay by ±25%.
func jittered(d time.Duration) time.Duration {
	//nolint:gosec // Using weak RNG for jitter is acceptable, not security-critical
	return d + time.Duration(float64(d)*0.25*(2*rand.Float64()-1))
}
