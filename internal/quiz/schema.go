package quiz

import "github.com/studygen/studygen/internal/llm"

// Schema defines the JSON schema for quiz generation responses.
var Schema = &llm.Schema{
	Name:        "study-quiz",
	Description: "A multiple-choice quiz generated from a study document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Question identifier, e.g. q1",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options",
						},
						"correctAnswer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is right",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"easy", "medium", "hard"},
							"description": "Per-question difficulty",
						},
						"category": map[string]any{
							"type":        "string",
							"enum":        []any{"concept", "application", "analysis"},
							"description": "What the question exercises",
						},
					},
					"required": []any{"question", "options", "correctAnswer", "explanation", "difficulty", "category"},
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
