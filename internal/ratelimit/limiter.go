// Package ratelimit provides a sliding-window rate limiter with a strict
// FIFO wait queue. Callers construct their own Limiter and inject it where
// needed; there is no package-level shared state.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Default policy for outbound generation calls.
const (
	DefaultCapacity = 15
	DefaultWindow   = 60 * time.Second
)

// Status is a synchronous snapshot of the limiter, suitable for display.
type Status struct {
	// RequestsRemaining is how many calls may start right now without
	// queueing. Never negative.
	RequestsRemaining int

	// QueueLength is the number of callers waiting for a slot.
	QueueLength int

	// IsProcessing reports whether any caller is currently queued.
	IsProcessing bool

	// ResetIn is the time until the oldest window entry expires and a
	// slot frees. Zero when the window is empty.
	ResetIn time.Duration
}

type waiter struct {
	ready chan struct{}
}

// Limiter admits at most capacity calls per rolling window. Excess callers
// block in Acquire, FIFO, until the oldest window entry expires.
type Limiter struct {
	capacity int
	window   time.Duration

	mu    sync.Mutex
	calls []time.Time
	queue []*waiter

	now func() time.Time
}

// New creates a Limiter admitting capacity calls per window.
// Non-positive arguments fall back to the defaults.
func New(capacity int, window time.Duration) *Limiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		capacity: capacity,
		window:   window,
		now:      time.Now,
	}
}

// Acquire blocks until the caller may start a call, recording it in the
// window. Returns ctx.Err() if the context is cancelled while waiting;
// in that case no window entry is consumed.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()

	t := l.now()
	l.prune(t)

	// Fast path: no queue and a free slot.
	if len(l.queue) == 0 && len(l.calls) < l.capacity {
		l.calls = append(l.calls, t)
		l.mu.Unlock()
		return nil
	}

	w := &waiter{ready: make(chan struct{}, 1)}
	l.queue = append(l.queue, w)

	for {
		wait := l.untilNextExpiry(l.now())
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			l.mu.Lock()
			l.remove(w)
			l.mu.Unlock()
			return ctx.Err()
		case <-w.ready:
			timer.Stop()
		case <-timer.C:
		}

		l.mu.Lock()
		l.prune(l.now())
		if len(l.queue) > 0 && l.queue[0] == w && len(l.calls) < l.capacity {
			l.queue = l.queue[1:]
			l.calls = append(l.calls, l.now())
			l.wakeFront()
			l.mu.Unlock()
			return nil
		}
		// Not front yet, or no slot freed. Keep waiting.
	}
}

// Status returns a snapshot of the limiter. Safe to call concurrently
// with Acquire.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	remaining := l.capacity - len(l.calls)
	if remaining < 0 {
		remaining = 0
	}

	var resetIn time.Duration
	if len(l.calls) > 0 {
		resetIn = l.calls[0].Add(l.window).Sub(now)
		if resetIn < 0 {
			resetIn = 0
		}
	}

	return Status{
		RequestsRemaining: remaining,
		QueueLength:       len(l.queue),
		IsProcessing:      len(l.queue) > 0,
		ResetIn:           resetIn,
	}
}

// prune drops window entries older than the window. Caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}

// untilNextExpiry returns how long until the oldest window entry expires.
// Caller holds the lock.
func (l *Limiter) untilNextExpiry(now time.Time) time.Duration {
	if len(l.calls) == 0 {
		return time.Millisecond
	}
	d := l.calls[0].Add(l.window).Sub(now)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// wakeFront signals the front waiter when a slot is still free.
// Caller holds the lock.
func (l *Limiter) wakeFront() {
	if len(l.queue) > 0 && len(l.calls) < l.capacity {
		select {
		case l.queue[0].ready <- struct{}{}:
		default:
		}
	}
}

// remove deletes w from the queue (cancelled waiter). Caller holds the lock.
func (l *Limiter) remove(w *waiter) {
	for i, q := range l.queue {
		if q == w {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			break
		}
	}
	l.wakeFront()
}
