// Package quiz defines the quiz content model and the prompt/schema used
// to generate quizzes from study documents.
package quiz

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Difficulty is the academic level the quiz targets.
type Difficulty string

const (
	DifficultySchool        Difficulty = "school"
	DifficultyUndergraduate Difficulty = "undergraduate"
	DifficultyGraduate      Difficulty = "graduate"
)

// ParseDifficulty validates a difficulty string from user input.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultySchool, DifficultyUndergraduate, DifficultyGraduate:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty %q: use %s, %s or %s",
		s, DifficultySchool, DifficultyUndergraduate, DifficultyGraduate)
}

// QuestionDifficulty is the per-question difficulty the model self-assigns.
type QuestionDifficulty string

const (
	QuestionEasy   QuestionDifficulty = "easy"
	QuestionMedium QuestionDifficulty = "medium"
	QuestionHard   QuestionDifficulty = "hard"
)

// Category classifies what a question exercises.
type Category string

const (
	CategoryConcept     Category = "concept"
	CategoryApplication Category = "application"
	CategoryAnalysis    Category = "analysis"
)

// OptionCount is the fixed number of choices per question.
const OptionCount = 4

// Question is a single multiple-choice question.
type Question struct {
	// ID identifies the question, e.g. "q1". Assigned locally when the
	// model omits it.
	ID string `json:"id"`

	// Question is the prompt shown to the learner.
	Question string `json:"question"`

	// Options holds exactly 4 choices.
	Options []string `json:"options"`

	// CorrectAnswer is the 0-based index of the correct option.
	CorrectAnswer int `json:"correctAnswer"`

	// Explanation says why the correct option is right.
	Explanation string `json:"explanation"`

	// Difficulty is the model's self-assessed difficulty.
	Difficulty QuestionDifficulty `json:"difficulty"`

	// Category classifies the question.
	Category Category `json:"category"`
}

// Quiz is a generated set of questions.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Parse decodes a structured generation response into a Quiz and fills
// in missing question IDs.
func Parse(raw json.RawMessage) (*Quiz, error) {
	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}

	for i := range q.Questions {
		if q.Questions[i].ID == "" {
			q.Questions[i].ID = uuid.NewString()
		}
	}

	return &q, nil
}
