package gate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGate_MutualExclusion(t *testing.T) {
	g := New()
	ctx := context.Background()

	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(ctx); err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer g.Release()

			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}
	wg.Wait()

	if peak != 1 {
		t.Errorf("peak concurrent holders = %d, want 1", peak)
	}
}

func TestGate_CancelledBeforeAcquire(t *testing.T) {
	g := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Acquire() error = %v, want context.Canceled", err)
	}

	// The free slot must not have been consumed.
	if !g.TryAcquire() {
		t.Fatal("gate should still be free")
	}
	g.Release()
}

func TestGate_CancelWhileWaiting(t *testing.T) {
	g := New()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Acquire(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return promptly")
	}

	g.Release()
	if !g.TryAcquire() {
		t.Fatal("gate should be free after release")
	}
	g.Release()
}

func TestGate_ReleaseHandsOff(t *testing.T) {
	g := New()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := g.Acquire(context.Background()); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired while gate was held")
	case <-time.After(20 * time.Millisecond):
	}

	g.Release()

	select {
	case <-acquired:
		g.Release()
	case <-time.After(time.Second):
		t.Fatal("waiter was not handed the gate")
	}
}
