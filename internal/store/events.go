package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// LLMRequestEventData captures one outbound model call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// GenerationRunEventData captures one completed generation run.
type GenerationRunEventData struct {
	RunID         string
	Kind          string // "quiz" or "flashcards"
	Difficulty    string
	QuestionCount int
	Attempts      int
	Score         int
	Level         string
	Warning       string
	ElapsedMs     int64
}

// GenerationRunEvent is a stored run event with its log position.
type GenerationRunEvent struct {
	Sequence  int64
	Timestamp time.Time
	GenerationRunEventData
}

// UsageStats aggregates the llm_request_events log.
type UsageStats struct {
	Requests     int64
	Failures     int64
	InputTokens  int64
	OutputTokens int64
	AvgLatencyMs int64
	ByPurpose    []PurposeUsage
}

// PurposeUsage is token usage broken down by call purpose.
type PurposeUsage struct {
	Purpose      string
	Requests     int64
	InputTokens  int64
	OutputTokens int64
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an outbound model call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendGenerationRun records a finished generation run.
	AppendGenerationRun(ctx context.Context, data GenerationRunEventData) error

	// Usage aggregates the request log.
	Usage(ctx context.Context) (*UsageStats, error)

	// RecentRuns returns the newest run events, newest first.
	RecentRuns(ctx context.Context, limit int) ([]GenerationRunEvent, error)
}

// sequence assigns a single increasing number to every event regardless
// of type. Per-table auto-increment IDs can't order events across
// tables; the shared counter can.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
}

func (s *sequence) next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`UPDATE event_sequence SET value = value + 1 WHERE id = 1 RETURNING value`)
	var v int64
	if err := row.Scan(&v); err != nil {
		return 0, fmt.Errorf("advance event sequence: %w", err)
	}
	return v, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequence
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO llm_request_events
			(sequence, timestamp, provider, model, purpose,
			 input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().Unix(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, boolInt(data.Success), data.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append llm request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendGenerationRun(ctx context.Context, data GenerationRunEventData) error {
	seqNum, err := r.seq.next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO generation_run_events
			(sequence, timestamp, run_id, kind, difficulty,
			 question_count, attempts, score, level, warning, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().Unix(), data.RunID, data.Kind, data.Difficulty,
		data.QuestionCount, data.Attempts, data.Score, data.Level, data.Warning, data.ElapsedMs)
	if err != nil {
		return fmt.Errorf("append generation run event: %w", err)
	}
	return nil
}

func (r *eventRepo) Usage(ctx context.Context) (*UsageStats, error) {
	stats := &UsageStats{}

	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		FROM llm_request_events`)
	if err := row.Scan(&stats.Requests, &stats.Failures,
		&stats.InputTokens, &stats.OutputTokens, &stats.AvgLatencyMs); err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT purpose, COUNT(*),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM llm_request_events
		GROUP BY purpose
		ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage by purpose: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PurposeUsage
		if err := rows.Scan(&p.Purpose, &p.Requests, &p.InputTokens, &p.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan purpose usage: %w", err)
		}
		stats.ByPurpose = append(stats.ByPurpose, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purpose usage: %w", err)
	}

	return stats, nil
}

func (r *eventRepo) RecentRuns(ctx context.Context, limit int) ([]GenerationRunEvent, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT sequence, timestamp, run_id, kind, difficulty,
		       question_count, attempts, score, level, warning, elapsed_ms
		FROM generation_run_events
		ORDER BY sequence DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var events []GenerationRunEvent
	for rows.Next() {
		var e GenerationRunEvent
		var ts int64
		if err := rows.Scan(&e.Sequence, &ts, &e.RunID, &e.Kind, &e.Difficulty,
			&e.QuestionCount, &e.Attempts, &e.Score, &e.Level, &e.Warning, &e.ElapsedMs); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run events: %w", err)
	}

	return events, nil
}

// NopEvents discards all events. Used where no database is open.
var NopEvents EventRepo = nopEvents{}

type nopEvents struct{}

func (nopEvents) AppendLLMRequest(context.Context, LLMRequestEventData) error       { return nil }
func (nopEvents) AppendGenerationRun(context.Context, GenerationRunEventData) error { return nil }
func (nopEvents) Usage(context.Context) (*UsageStats, error)                        { return &UsageStats{}, nil }
func (nopEvents) RecentRuns(context.Context, int) ([]GenerationRunEvent, error)     { return nil, nil }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
