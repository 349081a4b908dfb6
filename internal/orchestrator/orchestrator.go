// Package orchestrator drives the quiz generation loop: analyze the
// input, call the generation service through the rate-limit/retry chain,
// score the output, and regenerate with a tightened prompt until the
// quality threshold or the attempt cap is reached.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/progress"
	"github.com/studygen/studygen/internal/quality"
	"github.com/studygen/studygen/internal/quiz"
)

// Config controls generation parameters shared by all runs.
type Config struct {
	// MaxTokens is the token budget for one quiz response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// Retry sets the backoff between attempts that failed with a
	// transient error. The attempt cap itself comes from the request;
	// transient failures and quality regenerations draw from the same
	// budget.
	Retry llm.RetryConfig
}

// DefaultConfig returns the recommended generation parameters.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		Retry:       llm.DefaultConfig().Retry,
	}
}

// Orchestrator coordinates generation, validation and regeneration for
// quiz runs. It holds no per-run state; one Orchestrator serves any
// number of concurrent runs, which share only the provider's rate
// limiter.
type Orchestrator struct {
	provider llm.Provider
	cfg      Config
}

// New creates an Orchestrator on top of a provider. The provider should
// be rate-gated but not retry-wrapped: the run loop owns the attempt
// budget, so transient failures and quality regenerations are counted
// against the same cap.
func New(provider llm.Provider, cfg Config) *Orchestrator {
	return &Orchestrator{provider: provider, cfg: cfg}
}

// Run executes one generation run. It always terminates within
// req.MaxAttempts iterations and returns the best attempt seen, with a
// warning when the threshold was never reached. A non-nil error means
// the generation service failed permanently; quality shortfalls are not
// errors.
func (o *Orchestrator) Run(ctx context.Context, req Request, sink progress.Sink) (*Result, error) {
	if sink == nil {
		sink = progress.Discard
	}

	start := time.Now()
	ctx = llm.WithPurpose(ctx, "quiz-gen")
	ctx = progress.NewContext(ctx, sink)

	result := &Result{RunID: uuid.NewString()}

	// analyzing
	sink.Publish(progress.Event{
		Stage:   progress.StageAnalyzing,
		Percent: 10,
		Message: "checking document content",
	})
	if err := analyzeContent(req.Content); err != nil {
		sink.Publish(progress.Event{
			Stage:   progress.StageFailed,
			Percent: 100,
			Message: err.Error(),
		})
		return nil, err
	}

	maxAttempts := req.maxAttempts()
	threshold := req.threshold()

	var hints []string
	bestIdx := -1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// generating
		sink.Publish(progress.Event{
			Stage:   progress.StageGenerating,
			Percent: stagePercent(attempt, maxAttempts, false),
			Message: fmt.Sprintf("generating quiz (attempt %d/%d)", attempt, maxAttempts),
		})

		a := o.generate(ctx, req, attempt, hints)
		result.Attempts = append(result.Attempts, a)

		if a.Err != nil {
			if attempt < maxAttempts && llm.IsRetryable(a.Err) {
				sink.Publish(progress.Event{
					Stage:   progress.StageRetrying,
					Percent: stagePercent(attempt, maxAttempts, true),
					Message: fmt.Sprintf("generation failed (%v), retrying", a.Err),
				})
				if err := waitBackoff(ctx, llm.BackoffDelay(o.cfg.Retry, attempt, a.Err)); err != nil {
					result.Elapsed = time.Since(start)
					return nil, err
				}
				continue
			}
			sink.Publish(progress.Event{
				Stage:   progress.StageFailed,
				Percent: 100,
				Message: a.Err.Error(),
			})
			result.Elapsed = time.Since(start)
			return nil, fmt.Errorf("quiz generation failed on attempt %d: %w", attempt, a.Err)
		}

		// validating
		sink.Publish(progress.Event{
			Stage:   progress.StageValidating,
			Percent: stagePercent(attempt, maxAttempts, true),
			Message: fmt.Sprintf("scoring quiz quality (attempt %d/%d)", attempt, maxAttempts),
		})

		idx := len(result.Attempts) - 1
		if bestIdx < 0 || a.Report.Score > result.Attempts[bestIdx].Report.Score {
			bestIdx = idx
		}

		if a.Report.Score >= threshold {
			break
		}
		if attempt == maxAttempts {
			break
		}

		hints = a.Report.Warnings
		sink.Publish(progress.Event{
			Stage:   progress.StageRetrying,
			Percent: stagePercent(attempt, maxAttempts, true),
			Message: fmt.Sprintf("quality %d below threshold %d, regenerating", a.Report.Score, threshold),
		})
	}

	best := result.Attempts[bestIdx]
	result.Quiz = best.Quiz
	result.Report = best.Report
	result.Attempt = best.Number
	result.Elapsed = time.Since(start)

	if best.Report.Score < threshold {
		result.Warning = shortfallWarning(best.Report, threshold, len(result.Attempts))
	}

	sink.Publish(progress.Event{
		Stage:   progress.StageDone,
		Percent: 100,
		Message: fmt.Sprintf("quiz ready: score %d (%s)", best.Report.Score, best.Report.Level),
	})

	return result, nil
}

// generate performs one loop iteration: prompt, call, parse, score.
func (o *Orchestrator) generate(ctx context.Context, req Request, attempt int, hints []string) Attempt {
	start := time.Now()
	a := Attempt{Number: attempt}

	spec := quiz.PromptSpec{
		Difficulty:     req.Difficulty,
		QuestionCount:  req.questionCount(),
		Attempt:        attempt,
		ShortfallHints: hints,
	}

	resp, err := o.provider.Generate(ctx, llm.Request{
		System: quiz.SystemPrompt(),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: quiz.BuildUserMessage(req.Content, spec)},
		},
		Schema:      quiz.Schema,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		a.Err = err
		a.Elapsed = time.Since(start)
		return a
	}

	parsed, err := quiz.Parse(resp.Content)
	if err != nil {
		// Schema validation upstream makes this rare; score it as an
		// empty quiz so the loop can regenerate instead of dying.
		a.Quiz = &quiz.Quiz{}
		a.Report = quality.Evaluate(nil)
		a.Elapsed = time.Since(start)
		return a
	}

	a.Quiz = parsed
	a.Report = quality.Evaluate(parsed)
	a.Elapsed = time.Since(start)
	return a
}

// waitBackoff sleeps for the computed delay, aborting if ctx ends first.
func waitBackoff(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// analyzeContent pre-checks the document before any provider call.
func analyzeContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return fmt.Errorf("document content is empty")
	}
	if len(trimmed) < MinContentChars {
		return fmt.Errorf("document content too short: %d chars, need at least %d", len(trimmed), MinContentChars)
	}
	return nil
}

// stagePercent spreads the generating/validating stages across 10-80 so
// progress moves forward on every attempt.
func stagePercent(attempt, maxAttempts int, validated bool) int {
	step := 70 / maxAttempts
	p := 10 + (attempt-1)*step
	if validated {
		p += step
	}
	if p > 80 {
		p = 80
	}
	return p
}

func shortfallWarning(report quality.Report, threshold, attempts int) string {
	msg := fmt.Sprintf("quality threshold %d not reached after %d attempts; best score %d (%s)",
		threshold, attempts, report.Score, report.Level)
	if len(report.Warnings) > 0 {
		msg += ": " + strings.Join(report.Warnings, "; ")
	}
	return msg
}
