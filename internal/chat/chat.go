// Package chat answers learner questions in two modes: free-form, or
// grounded strictly in a supplied study document.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/studygen/studygen/internal/llm"
)

// Mode selects how a question is answered.
type Mode string

const (
	// ModeAskAnything answers from the model's general knowledge.
	ModeAskAnything Mode = "ask_anything"

	// ModeAskDocument answers only from the supplied document content.
	ModeAskDocument Mode = "ask_document"
)

// maxDocumentChars is the document budget sent with a grounded question.
const maxDocumentChars = 8000

// Request is one question.
type Request struct {
	// Message is the learner's question.
	Message string

	// Mode selects the answering mode. Empty defaults to ModeAskAnything.
	Mode Mode

	// Document is the study material for ModeAskDocument.
	Document string
}

// Answer is the model's reply.
type Answer struct {
	// Markdown is the formatted reply text.
	Markdown string

	// Mode is the mode that produced the answer.
	Mode Mode
}

// Config holds chat settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for chat.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// Service answers chat requests.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a chat service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Ask answers one question. ModeAskDocument without document content is
// an error; the caller should fall back to ModeAskAnything.
func (s *Service) Ask(ctx context.Context, req Request) (*Answer, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeAskAnything
	}

	var system, user string
	switch mode {
	case ModeAskAnything:
		system = askAnythingSystemPrompt
		user = buildAskAnythingMessage(req.Message)
	case ModeAskDocument:
		if strings.TrimSpace(req.Document) == "" {
			return nil, fmt.Errorf("no document content: upload a document or use the %s mode", ModeAskAnything)
		}
		system = askDocumentSystemPrompt
		user = buildAskDocumentMessage(req.Message, req.Document)
	default:
		return nil, fmt.Errorf("invalid chat mode: %q", req.Mode)
	}

	ctx = llm.WithPurpose(ctx, "chat")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	return &Answer{
		Markdown: strings.TrimSpace(string(resp.Content)),
		Mode:     mode,
	}, nil
}

const askAnythingSystemPrompt = `You are a helpful study assistant answering a learner's question.

Format your response clearly:
- Use **bold** for important terms.
- Use bullet points or numbered lists for multiple items.
- Use clear paragraphs.
- Keep responses concise but informative.`

const askDocumentSystemPrompt = `You are a study assistant helping a learner understand their study material.

Answer based ONLY on the document content the learner provides. If the
answer is not in the document, say "I cannot find this information in the
provided document." Quote specific parts of the document where relevant.

Format your response clearly:
- Use **bold** for important terms.
- Use bullet points or numbered lists for multiple items.
- Use clear paragraphs.`

func buildAskAnythingMessage(message string) string {
	return message
}

func buildAskDocumentMessage(message, document string) string {
	if len(document) > maxDocumentChars {
		document = document[:maxDocumentChars]
	}

	var b strings.Builder
	b.WriteString("Document content:\n")
	b.WriteString(document)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(message)
	b.WriteString("\n")
	return b.String()
}
