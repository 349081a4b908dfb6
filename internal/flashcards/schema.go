package flashcards

import "github.com/studygen/studygen/internal/llm"

// Schema defines the JSON schema for flashcard generation.
var Schema = &llm.Schema{
	Name:        "study-flashcards",
	Description: "A set of front/back flashcards derived from a study document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "The prompt side: a key term or short question",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The answer side: a concise definition or answer (1-3 sentences)",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "The document topic or section this card covers",
						},
					},
					"required":             []any{"front", "back", "topic"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
