// Package flashcards generates study flashcards from document content.
package flashcards

import (
	"encoding/json"
	"fmt"
)

// DefaultCardCount is how many cards one request produces unless the
// caller asks otherwise.
const DefaultCardCount = 12

// Card is a single front/back flashcard.
type Card struct {
	// Front is the prompt side: a term or question.
	Front string `json:"front"`

	// Back is the answer side.
	Back string `json:"back"`

	// Topic groups cards by the document section they came from.
	Topic string `json:"topic"`
}

// Deck is a generated set of cards.
type Deck struct {
	Cards []Card `json:"cards"`
}

// Input describes one flashcard generation request.
type Input struct {
	// Content is the study document text.
	Content string

	// Count is how many cards to generate. Zero means DefaultCardCount.
	Count int
}

func (in Input) count() int {
	if in.Count <= 0 {
		return DefaultCardCount
	}
	return in.Count
}

// parseDeck decodes a structured generation response.
func parseDeck(raw json.RawMessage) (*Deck, error) {
	var d Deck
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse flashcard response: %w", err)
	}
	if len(d.Cards) == 0 {
		return nil, fmt.Errorf("flashcard response contains no cards")
	}
	return &d, nil
}
