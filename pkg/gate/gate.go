// Package gate serializes outbound PoiskKino requests through a single slot.
package gate

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

var (
	gateInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poiskkino_gate_in_flight",
		Help: "Number of outbound PoiskKino requests currently holding the gate",
	})

	gateWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "poiskkino_gate_wait_seconds",
		Help:    "Time spent waiting for the request gate",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
	})
)

// Gate admits one holder at a time. Waiters are served in FIFO order.
// The zero value is not usable; create gates with New.
type Gate struct {
	sem *semaphore.Weighted
}

// New creates an open gate.
func New() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until the caller is the sole holder or ctx is done.
// A context that is already done never acquires the gate, even when it is free.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	gateWaitSeconds.Observe(time.Since(start).Seconds())

	// Lost the race against cancellation while being handed the slot.
	if err := ctx.Err(); err != nil {
		g.sem.Release(1)
		return err
	}

	gateInFlight.Inc()
	return nil
}

// Release hands the gate to the next waiter. It must be called exactly once
// per successful Acquire.
func (g *Gate) Release() {
	gateInFlight.Dec()
	g.sem.Release(1)
}

// TryAcquire acquires the gate only if it is free.
func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	gateInFlight.Inc()
	return true
}
