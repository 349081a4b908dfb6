package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/studygen/studygen/internal/progress"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter. Before every attempt it reports
// through the progress sink carried in the context, so callers see
// "attempt 2/3" style updates without wiring a callback through here.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	sink := progress.FromContext(ctx)

	var lastErr error
	invalidRetried := false

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		stage := progress.StageGenerating
		if attempt > 1 {
			stage = progress.StageRetrying
		}
		sink.Publish(progress.Event{
			Stage:   stage,
			Message: fmt.Sprintf("calling generation service (attempt %d/%d)", attempt, r.config.MaxAttempts),
		})

		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &invalidRetried) {
			return nil, err
		}

		// Last attempt failed, nothing left to wait for.
		if attempt == r.config.MaxAttempts {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry applies the closed retryability set, with the decorator's
// extra rule that schema-invalid output gets exactly one retry.
func (r *RetryProvider) shouldRetry(err error, invalidRetried *bool) bool {
	if !IsRetryable(err) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
	}

	return true
}

// backoff computes the wait before the next attempt. attempt is 1-based.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	return BackoffDelay(r.config, attempt, err)
}

// IsRetryable classifies err against the closed retryability set.
// Transient: ErrRateLimit, ErrProviderUnavailable, ErrInvalidResponse
// and unknown (network-class) errors. Permanent: ErrUnauthorized,
// ErrMaxTokensExceeded and context errors.
func IsRetryable(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Bad credentials stay bad.
	var unauth *ErrUnauthorized
	if errors.As(err, &unauth) {
		return false
	}

	// Truncation is a configuration issue, not transient.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// Rate limits, outages, schema-invalid output and anything else
	// (network, DNS) are treated as transient.
	return true
}

// BackoffDelay computes the exponential backoff wait for a 1-based
// attempt, honoring the server's RetryAfter for rate limits and adding
// ±20% jitter.
func BackoffDelay(cfg RetryConfig, attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
