package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/studygen/studygen/internal/llm"
)

func TestAsk_DefaultsToAskAnything(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("**Osmosis** is the diffusion of water across a membrane."),
	})
	svc := NewService(mock, DefaultConfig())

	ans, err := svc.Ask(t.Context(), Request{Message: "What is osmosis?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ans.Mode != ModeAskAnything {
		t.Errorf("mode = %q, want %q", ans.Mode, ModeAskAnything)
	}
	if !strings.Contains(ans.Markdown, "**Osmosis**") {
		t.Errorf("unexpected answer: %q", ans.Markdown)
	}
	if mock.Calls[0].Messages[0].Content != "What is osmosis?" {
		t.Errorf("unexpected prompt: %q", mock.Calls[0].Messages[0].Content)
	}
}

func TestAsk_EmptyMessageRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Ask(t.Context(), Request{Message: "  \n"}); err == nil {
		t.Fatal("expected error for empty message")
	}
	if mock.CallCount() != 0 {
		t.Error("empty message must not reach the provider")
	}
}

func TestAsk_DocumentModeRequiresDocument(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Ask(t.Context(), Request{Message: "What is osmosis?", Mode: ModeAskDocument})
	if err == nil {
		t.Fatal("expected error without document content")
	}
	if !strings.Contains(err.Error(), string(ModeAskAnything)) {
		t.Errorf("error should suggest the fallback mode, got %q", err)
	}
	if mock.CallCount() != 0 {
		t.Error("missing document must not reach the provider")
	}
}

func TestAsk_DocumentModeGroundsPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Water moves toward the higher solute concentration."),
	})
	svc := NewService(mock, DefaultConfig())

	doc := "Osmosis moves water across a semipermeable membrane toward higher solute concentration."
	ans, err := svc.Ask(t.Context(), Request{
		Message:  "Which way does water move?",
		Mode:     ModeAskDocument,
		Document: doc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Mode != ModeAskDocument {
		t.Errorf("mode = %q, want %q", ans.Mode, ModeAskDocument)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "semipermeable membrane") {
		t.Error("prompt missing document content")
	}
	if !strings.Contains(prompt, "Which way does water move?") {
		t.Error("prompt missing the question")
	}
}

func TestAsk_DocumentTruncated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("ok")})
	svc := NewService(mock, DefaultConfig())

	doc := strings.Repeat("x", maxDocumentChars+500)
	_, err := svc.Ask(t.Context(), Request{
		Message:  "Summarize.",
		Mode:     ModeAskDocument,
		Document: doc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if strings.Count(prompt, "x") != maxDocumentChars {
		t.Errorf("document not truncated to %d chars", maxDocumentChars)
	}
}

func TestAsk_InvalidModeRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Ask(t.Context(), Request{Message: "hi", Mode: "telepathy"}); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestRenderHTML(t *testing.T) {
	ans := &Answer{Markdown: "# Heading\n\nSome **bold** text."}

	html, err := RenderHTML(ans)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"<!DOCTYPE html>", "<h1", "<strong>bold</strong>"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}
