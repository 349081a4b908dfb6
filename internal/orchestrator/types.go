package orchestrator

import (
	"time"

	"github.com/studygen/studygen/internal/quality"
	"github.com/studygen/studygen/internal/quiz"
)

// Defaults for a generation run.
const (
	DefaultMaxAttempts      = 3
	DefaultQualityThreshold = quality.GoodMin
	DefaultQuestionCount    = 10

	// MinContentChars is the smallest document the analyzer accepts.
	MinContentChars = 40
)

// Request describes one quiz generation run. Immutable once issued;
// the orchestrator adjusts prompt parameters between attempts but never
// mutates the request.
type Request struct {
	// Content is the study document text.
	Content string

	// Difficulty is the academic level to target.
	Difficulty quiz.Difficulty

	// QuestionCount is how many questions to generate.
	// Zero means DefaultQuestionCount.
	QuestionCount int

	// QualityThreshold is the minimum score accepted without a warning.
	// Zero means DefaultQualityThreshold.
	QualityThreshold int

	// MaxAttempts bounds the regeneration loop.
	// Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// Attempt records the outcome of one loop iteration. The history is
// append-only within a run.
type Attempt struct {
	// Number is 1-based.
	Number int

	// Quiz is the parsed output, nil when the attempt errored.
	Quiz *quiz.Quiz

	// Report is the quality evaluation of Quiz. Zero value when the
	// attempt errored.
	Report quality.Report

	// Err is the failure, nil on success.
	Err error

	// Elapsed is how long the attempt took.
	Elapsed time.Duration
}

// Result is the outcome of a completed run.
type Result struct {
	// RunID identifies the run in logs and events.
	RunID string

	// Quiz is the best-scoring quiz seen across all attempts.
	Quiz *quiz.Quiz

	// Report is the evaluation of Quiz.
	Report quality.Report

	// Attempt is the 1-based attempt that produced Quiz.
	Attempt int

	// Attempts is the full append-only history.
	Attempts []Attempt

	// Warning is non-empty when the run finished below the quality
	// threshold. A quality shortfall is not an error.
	Warning string

	// Elapsed is the total run duration.
	Elapsed time.Duration
}

func (r *Request) maxAttempts() int {
	if r.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return r.MaxAttempts
}

func (r *Request) questionCount() int {
	if r.QuestionCount <= 0 {
		return DefaultQuestionCount
	}
	return r.QuestionCount
}

func (r *Request) threshold() int {
	if r.QualityThreshold <= 0 {
		return DefaultQualityThreshold
	}
	return r.QualityThreshold
}
