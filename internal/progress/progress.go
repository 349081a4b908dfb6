// Package progress defines the typed event stream consumers subscribe to
// while a generation run is in flight.
package progress

import "context"

// Stage identifies where in the generation pipeline an event was emitted.
type Stage string

const (
	StageAnalyzing  Stage = "analyzing"
	StageGenerating Stage = "generating"
	StageValidating Stage = "validating"
	StageRetrying   Stage = "retrying"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Event is a single progress notification. Events are transient and never
// persisted.
type Event struct {
	Stage   Stage
	Percent int
	Message string
}

// Sink receives progress events. Implementations must be fast; they are
// called synchronously from the generation loop.
type Sink interface {
	Publish(Event)
}

// Func adapts an ordinary function to the Sink interface.
type Func func(Event)

func (f Func) Publish(e Event) { f(e) }

// Discard is a Sink that drops all events.
var Discard Sink = Func(func(Event) {})

type contextKey string

const sinkKey contextKey = "progress_sink"

// NewContext attaches a Sink to the context so lower layers (the retry
// decorator) can report attempts without threading a callback through
// every signature.
func NewContext(ctx context.Context, sink Sink) context.Context {
	return context.WithValue(ctx, sinkKey, sink)
}

// FromContext extracts the Sink from the context, or Discard if none is set.
func FromContext(ctx context.Context) Sink {
	if s, ok := ctx.Value(sinkKey).(Sink); ok && s != nil {
		return s
	}
	return Discard
}
