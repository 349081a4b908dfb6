package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquire_UnderCapacityIsImmediate(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		done := make(chan error, 1)
		go func() { done <- l.Acquire(context.Background()) }()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("acquire %d: unexpected error: %v", i, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("acquire %d blocked under capacity", i)
		}
	}
}

func TestAcquire_OverCapacityBlocksUntilRollover(t *testing.T) {
	l := New(2, 50*time.Millisecond)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	var acquired atomic.Bool
	done := make(chan struct{})
	go func() {
		if err := l.Acquire(context.Background()); err == nil {
			acquired.Store(true)
		}
		close(done)
	}()

	// Third call must stay pending while the window is full.
	time.Sleep(10 * time.Millisecond)
	if acquired.Load() {
		t.Fatal("third acquire succeeded inside a full window")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("third acquire never completed after window rollover")
	}
	if !acquired.Load() {
		t.Fatal("third acquire returned an error")
	}
}

func TestStatus_RemainingNeverNegative(t *testing.T) {
	l := New(1, 50*time.Millisecond)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Pile up waiters beyond capacity.
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Acquire(context.Background())
		}()
	}

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		if got := l.Status().RequestsRemaining; got < 0 {
			t.Fatalf("RequestsRemaining went negative: %d", got)
		}
		time.Sleep(time.Millisecond)
	}
	wg.Wait()
}

func TestStatus_ReportsQueue(t *testing.T) {
	l := New(1, time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	waiting := make(chan struct{})
	go func() {
		close(waiting)
		_ = l.Acquire(ctx)
	}()
	<-waiting

	// Give the waiter time to enqueue.
	var st Status
	for i := 0; i < 100; i++ {
		st = l.Status()
		if st.QueueLength == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if st.QueueLength != 1 {
		t.Fatalf("expected QueueLength 1, got %d", st.QueueLength)
	}
	if !st.IsProcessing {
		t.Error("expected IsProcessing with a queued caller")
	}
	if st.RequestsRemaining != 0 {
		t.Errorf("expected 0 remaining, got %d", st.RequestsRemaining)
	}
	if st.ResetIn <= 0 {
		t.Errorf("expected positive ResetIn, got %v", st.ResetIn)
	}
}

func TestAcquire_CancelledWaiterLeavesQueue(t *testing.T) {
	l := New(1, time.Minute)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Acquire(ctx) }()

	for i := 0; i < 100; i++ {
		if l.Status().QueueLength == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled acquire never returned")
	}

	for i := 0; i < 100; i++ {
		if l.Status().QueueLength == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("queue not drained after cancel: %d", l.Status().QueueLength)
}

func TestAcquire_FIFOOrder(t *testing.T) {
	l := New(1, 20*time.Millisecond)

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err == nil {
				mu.Lock()
				order = append(order, n)
				mu.Unlock()
			}
		}(i)
		// Stagger the goroutines so queue order is deterministic.
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	if len(order) != 3 {
		t.Fatalf("expected 3 acquisitions, got %d", len(order))
	}
	for i, n := range order {
		if n != i+1 {
			t.Fatalf("expected FIFO order [1 2 3], got %v", order)
		}
	}
}
