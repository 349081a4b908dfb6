package quiz

import (
	"fmt"
	"strings"
)

// MaxContentChars is the document budget sent to the model. Longer
// documents are truncated; key concepts are expected early in study
// material anyway.
const MaxContentChars = 4000

const systemPrompt = `You are an expert quiz generator creating multiple-choice questions from study documents.

Rules:
- Generate questions strictly from the document content. Do not invent facts the document does not state.
- Each question has exactly 4 options and exactly one correct answer.
- correctAnswer is the 0-based index of the correct option.
- Distractors must be plausible but clearly wrong given the document. No "all of the above".
- Every question includes a short explanation of why the correct option is right.
- Spread questions across concept, application and analysis categories.
- Match the requested academic difficulty level.
- Options within one question must not repeat each other, and questions must not repeat each other.`

// PromptSpec carries the tunable parameters of one generation attempt.
// The orchestrator tightens it between attempts when quality falls short.
type PromptSpec struct {
	Difficulty    Difficulty
	QuestionCount int

	// Attempt is the 1-based orchestration attempt. Attempts after the
	// first add stricter directives so regeneration does not simply
	// replay the same prompt.
	Attempt int

	// ShortfallHints names the quality dimensions the previous attempt
	// failed, so the model can correct course.
	ShortfallHints []string
}

// SystemPrompt returns the system prompt for quiz generation.
func SystemPrompt() string { return systemPrompt }

// BuildUserMessage constructs the user message for one attempt.
// Content beyond MaxContentChars is dropped.
func BuildUserMessage(content string, spec PromptSpec) string {
	if len(content) > MaxContentChars {
		content = content[:MaxContentChars]
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Difficulty level: %s\n", spec.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", spec.QuestionCount)

	b.WriteString("\nDocument content:\n")
	b.WriteString(content)
	b.WriteString("\n")

	if spec.Attempt > 1 {
		fmt.Fprintf(&b, "\nThis is regeneration attempt %d. The previous quiz fell short. Be more specific:\n", spec.Attempt)
		b.WriteString("- Make each question precise and unambiguous.\n")
		b.WriteString("- Write four distinct, substantive options per question.\n")
		b.WriteString("- Explain answers in at least one full sentence grounded in the document.\n")
		for _, hint := range spec.ShortfallHints {
			fmt.Fprintf(&b, "- Previous shortfall: %s\n", hint)
		}
	}

	return b.String()
}
