package flashcards

import (
	"fmt"
	"strings"
)

// maxContentChars is the document budget sent to the model.
const maxContentChars = 4000

const systemPrompt = `You are an expert at turning study documents into effective flashcards.

Rules:
- Create cards strictly from the document content. Do not invent facts.
- The front is one key term or one short question, never more.
- The back answers the front in 1-3 sentences, self-contained.
- No card duplicates another card's front.
- Tag each card with the document topic it covers.`

func buildUserMessage(input Input) string {
	content := input.Content
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Number of flashcards: %d\n", input.count())
	b.WriteString("\nDocument content:\n")
	b.WriteString(content)
	b.WriteString("\n")

	return b.String()
}
