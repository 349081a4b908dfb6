package llm

import (
	"context"
	"fmt"

	"github.com/studygen/studygen/internal/ratelimit"
	"github.com/studygen/studygen/internal/store"
)

// NewBaseProvider creates the configured provider with no middleware.
// Callers compose their own chain: the quiz orchestrator adds gate and
// logging only (its run loop owns retries), single-shot services use
// NewProvider for the full chain.
func NewBaseProvider(ctx context.Context, cfg Config) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return base, nil
}

// NewProvider creates a Provider from configuration, wrapped with the
// full middleware chain:
//
//	caller → rate-limit gate → retry → logging → base
//
// The gate sits outermost so a call holds one slot across its retries;
// the logger sits innermost so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, limiter *ratelimit.Limiter, events store.EventRepo) (Provider, error) {
	base, err := NewBaseProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := WithLogging(base, events)
	p = WithRetry(p, cfg.Retry)
	p = WithRateLimit(p, limiter)

	return p, nil
}
