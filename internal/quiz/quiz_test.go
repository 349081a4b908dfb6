package quiz

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParse_FillsMissingIDs(t *testing.T) {
	raw := json.RawMessage(`{"questions":[
		{"id":"q1","question":"What is mitosis?","options":["a","b","c","d"],"correctAnswer":0,"explanation":"x","difficulty":"easy","category":"concept"},
		{"question":"What is meiosis?","options":["a","b","c","d"],"correctAnswer":1,"explanation":"y","difficulty":"medium","category":"concept"}
	]}`)

	q, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(q.Questions))
	}
	if q.Questions[0].ID != "q1" {
		t.Errorf("existing ID overwritten: %q", q.Questions[0].ID)
	}
	if q.Questions[1].ID == "" {
		t.Error("missing ID not assigned")
	}
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	if _, err := Parse(json.RawMessage(`{"questions": [`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestBuildUserMessage_TruncatesContent(t *testing.T) {
	content := strings.Repeat("a", MaxContentChars+500)
	msg := BuildUserMessage(content, PromptSpec{
		Difficulty:    DifficultyUndergraduate,
		QuestionCount: 10,
		Attempt:       1,
	})

	if strings.Count(msg, "a") > MaxContentChars {
		t.Fatalf("content not truncated to %d chars", MaxContentChars)
	}
	if !strings.Contains(msg, "Number of questions: 10") {
		t.Error("question count missing from prompt")
	}
	if !strings.Contains(msg, "Difficulty level: undergraduate") {
		t.Error("difficulty missing from prompt")
	}
}

func TestBuildUserMessage_FirstAttemptHasNoRegenDirectives(t *testing.T) {
	msg := BuildUserMessage("cells divide", PromptSpec{
		Difficulty:    DifficultySchool,
		QuestionCount: 5,
		Attempt:       1,
	})
	if strings.Contains(msg, "regeneration attempt") {
		t.Fatal("first attempt must not carry regeneration directives")
	}
}

func TestBuildUserMessage_LaterAttemptsTightenPrompt(t *testing.T) {
	msg := BuildUserMessage("cells divide", PromptSpec{
		Difficulty:     DifficultySchool,
		QuestionCount:  5,
		Attempt:        2,
		ShortfallHints: []string{"options lack diversity"},
	})
	if !strings.Contains(msg, "regeneration attempt 2") {
		t.Fatal("attempt number missing from regeneration directives")
	}
	if !strings.Contains(msg, "options lack diversity") {
		t.Fatal("shortfall hint not forwarded to the model")
	}
}
