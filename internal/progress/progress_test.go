package progress

import (
	"context"
	"testing"
)

func TestFromContext_DefaultsToDiscard(t *testing.T) {
	sink := FromContext(context.Background())
	if sink == nil {
		t.Fatal("expected Discard sink, got nil")
	}
	// Must not panic.
	sink.Publish(Event{Stage: StageAnalyzing, Percent: 10})
}

func TestFromContext_RoundTrip(t *testing.T) {
	var got []Event
	ctx := NewContext(context.Background(), Func(func(e Event) {
		got = append(got, e)
	}))

	FromContext(ctx).Publish(Event{Stage: StageGenerating, Percent: 40, Message: "attempt 1/3"})

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Stage != StageGenerating {
		t.Errorf("expected stage %q, got %q", StageGenerating, got[0].Stage)
	}
	if got[0].Percent != 40 {
		t.Errorf("expected percent 40, got %d", got[0].Percent)
	}
}
