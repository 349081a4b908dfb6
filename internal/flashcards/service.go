package flashcards

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/studygen/studygen/internal/llm"
)

// Config holds flashcard generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for flashcard generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.6,
	}
}

// Service generates flashcard decks. Generate is the synchronous path;
// Request/Consume run the same generation off the caller's goroutine
// with a single in-flight slot.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	pending *Deck
	err     error
	ready   bool
}

// NewService creates a flashcard generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Generate produces a deck from the input document.
func (s *Service) Generate(ctx context.Context, input Input) (*Deck, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("document content is empty")
	}

	ctx = llm.WithPurpose(ctx, "flashcards")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("flashcard generation: %w", err)
	}

	return parseDeck(resp.Content)
}

// Request starts async deck generation. Only one deck is in-flight at a
// time; a new request replaces a pending result.
func (s *Service) Request(ctx context.Context, input Input) {
	go func() {
		deck, err := s.Generate(ctx, input)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = deck
		s.err = err
		s.ready = true
	}()
}

// Consume returns the finished deck or the generation error once ready.
// ok is false while generation is still in flight. Consuming clears the
// slot.
func (s *Service) Consume() (deck *Deck, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false, nil
	}
	deck, err = s.pending, s.err
	s.pending = nil
	s.err = nil
	s.ready = false
	return deck, true, err
}
