package llm

import (
	"context"

	"github.com/studygen/studygen/internal/ratelimit"
)

// GatedProvider is a decorator that holds requests at a shared rate
// limiter before they go out. It sits outermost in the middleware chain
// so a run's retries reuse the slot the run already acquired.
type GatedProvider struct {
	inner   Provider
	limiter *ratelimit.Limiter
}

// WithRateLimit wraps a Provider with a rate-limiter gate. Concurrent
// runs (quiz and flashcard generation at once) share the limiter and
// serialize through its FIFO queue.
func WithRateLimit(p Provider, l *ratelimit.Limiter) Provider {
	return &GatedProvider{inner: p, limiter: l}
}

func (g *GatedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	return g.inner.Generate(ctx, req)
}

func (g *GatedProvider) ModelID() string {
	return g.inner.ModelID()
}
