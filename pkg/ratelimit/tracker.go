package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poiskkino_quota_used",
		Help: "Outbound PoiskKino requests made in the current UTC day",
	})

	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poiskkino_quota_remaining",
		Help: "Outbound PoiskKino requests left in the current UTC day",
	})

	rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poiskkino_rate_limited_total",
		Help: "Total number of throttled responses by HTTP status",
	}, []string{"status"})
)

// Tracker counts outbound requests against the daily budget.
type Tracker struct {
	store  Store
	limit  int
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDailyLimit overrides DefaultDailyLimit. Non-positive values are ignored.
func WithDailyLimit(limit int) Option {
	return func(t *Tracker) {
		if limit > 0 {
			t.limit = limit
		}
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a tracker on top of store.
func NewTracker(store Store, logger zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		limit:  DefaultDailyLimit,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Limit returns the daily budget.
func (t *Tracker) Limit() int {
	return t.limit
}

// RecordRequest counts one outbound request and returns the updated state.
func (t *Tracker) RecordRequest(ctx context.Context) (*QuotaState, error) {
	now := t.now()
	day := DayKey(now)

	used, err := t.store.Incr(ctx, day, EndOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("record request: %w", err)
	}

	state := &QuotaState{Day: day, Used: used, Limit: t.limit}
	t.publish(state)

	switch {
	case state.Exhausted():
		t.logger.Error().
			Int(logging.FieldQuotaUsed, state.Used).
			Int(logging.FieldQuotaLimit, state.Limit).
			Msg("Daily PoiskKino quota exhausted - expect 403 responses until UTC midnight")
	case state.NeedsWarning():
		t.logger.Warn().
			Int(logging.FieldQuotaUsed, state.Used).
			Int(logging.FieldQuotaRemaining, state.Remaining()).
			Msg("Daily PoiskKino quota running low")
	default:
		t.logger.Debug().
			Int(logging.FieldQuotaUsed, state.Used).
			Msg("Quota updated")
	}

	return state, nil
}

// RecordThrottle stores an upstream 429/403 answer.
func (t *Tracker) RecordThrottle(ctx context.Context, statusCode int, message string) error {
	rateLimitedTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()

	th := Throttle{
		StatusCode: statusCode,
		Message:    message,
		At:         t.now(),
	}
	if err := t.store.SetThrottle(ctx, th); err != nil {
		return fmt.Errorf("record throttle: %w", err)
	}

	t.logger.Error().
		Int(logging.FieldStatus, statusCode).
		Str(logging.FieldMessage, message).
		Msg("PoiskKino throttled the request")

	return nil
}

// State returns the current quota state.
func (t *Tracker) State(ctx context.Context) (*QuotaState, error) {
	day := DayKey(t.now())

	used, err := t.store.Used(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("get used: %w", err)
	}

	th, err := t.store.LastThrottle(ctx)
	if err != nil {
		return nil, fmt.Errorf("get last throttle: %w", err)
	}

	state := &QuotaState{
		Day:          day,
		Used:         used,
		Limit:        t.limit,
		LastThrottle: th,
	}
	t.publish(state)

	return state, nil
}

func (t *Tracker) publish(state *QuotaState) {
	quotaUsed.Set(float64(state.Used))
	quotaRemaining.Set(float64(state.Remaining()))
}
