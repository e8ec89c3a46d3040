package bridge

import (
	"context"
	"time"
)

// RetryConfig configures the retry wrapper.
type RetryConfig struct {
	// Retries is the number of attempts after the first (default 2).
	Retries int
	// BaseDelay is the first backoff delay; doubles per attempt (default 250ms).
	BaseDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Retries: 2, BaseDelay: 250 * time.Millisecond}
}

// WithRetry layers exponential-backoff retries over a bridge call.
// Only use this for idempotent read operations: mutating operations are
// not verified idempotent and must not be retried blindly.
//
// The call is retried while it reports failure; the last Result is
// returned when attempts are exhausted or the context ends.
func WithRetry(ctx context.Context, cfg RetryConfig, call func(context.Context) Result) Result {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 250 * time.Millisecond
	}

	var res Result
	attempts := 1 + cfg.Retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			if i == 0 {
				return Fail(ModeMock, CodeMockFailure, "context canceled before first attempt: "+err.Error())
			}
			return res
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * cfg.BaseDelay
			select {
			case <-ctx.Done():
				return res
			case <-time.After(backoff):
			}
		}

		res = call(ctx)
		if res.Success {
			return res
		}
	}

	return res
}
