package client

import (
	"context"
	"time"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for PoiskKino lookups.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poiskkino_requests_total",
		Help: "Total PoiskKino lookups by operation and outcome",
	}, []string{"op", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "poiskkino_request_duration_seconds",
		Help:    "Duration of PoiskKino lookups that reached the network, by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 120},
	}, []string{"op"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poiskkino_errors_total",
		Help: "Total PoiskKino lookups that returned no data, by outcome",
	}, []string{"outcome"})
)

// Op names a lookup operation.
type Op string

const (
	OpSearch Op = "search"
	OpMovie  Op = "movie"
	OpSeason Op = "season"
)

// Event describes one finished lookup. It never carries the API key.
type Event struct {
	Op Op

	// Parameters, set according to Op.
	Title        string
	Year         int
	ID           int
	ParentID     int
	SeasonNumber int

	Outcome    Outcome
	StatusCode int
	Message    string
	Cached     bool
	Duration   time.Duration
	Err        error
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (e Event) MarshalZerologObject(z *zerolog.Event) {
	z.Str(logging.FieldOp, string(e.Op))
	switch e.Op {
	case OpSearch:
		z.Str(logging.FieldTitle, e.Title)
		if e.Year > 0 {
			z.Int(logging.FieldYear, e.Year)
		}
	case OpMovie:
		z.Int(logging.FieldID, e.ID)
	case OpSeason:
		z.Int(logging.FieldParentID, e.ParentID).Int(logging.FieldSeason, e.SeasonNumber)
	}
	z.Str(logging.FieldOutcome, string(e.Outcome)).Bool(logging.FieldCacheHit, e.Cached)
	if e.StatusCode != 0 {
		z.Int(logging.FieldStatus, e.StatusCode)
	}
	if e.Message != "" {
		z.Str(logging.FieldMessage, e.Message)
	}
	if !e.Cached {
		z.Dur(logging.FieldDuration, e.Duration)
	}
}

// networked reports whether the lookup went past the cache and key checks.
func (e Event) networked() bool {
	return !e.Cached && e.Outcome != OutcomeUnconfigured
}

// Observer receives every lookup outcome. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f(ctx, ev).
func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// LogObserver logs outcomes through zerolog and records Prometheus metrics.
// It is the default Observer of a Client.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates a LogObserver writing to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// Observe implements Observer.
func (o *LogObserver) Observe(_ context.Context, ev Event) {
	requestsTotal.WithLabelValues(string(ev.Op), string(ev.Outcome)).Inc()
	if ev.networked() {
		requestDuration.WithLabelValues(string(ev.Op)).Observe(ev.Duration.Seconds())
	}
	if ev.Outcome.Unavailable() {
		errorsTotal.WithLabelValues(string(ev.Outcome)).Inc()
	}

	switch ev.Outcome {
	case OutcomeOK:
		if ev.Cached {
			o.logger.Debug().EmbedObject(ev).Msg("Cache hit")
			return
		}
		o.logger.Debug().EmbedObject(ev).Msg("Lookup succeeded")
	case OutcomeNotFound:
		o.logger.Debug().EmbedObject(ev).Msg("Not found")
	case OutcomeUnconfigured:
		o.logger.Warn().EmbedObject(ev).Msg("PoiskKino API key is not configured")
	case OutcomeRateLimited:
		o.logger.Warn().EmbedObject(ev).Msg("PoiskKino rate limit reached")
	case OutcomeCancelled:
		o.logger.Info().EmbedObject(ev).Msg("Lookup cancelled")
	case OutcomeTimedOut:
		o.logger.Warn().EmbedObject(ev).Err(ev.Err).Msg("Lookup timed out")
	default:
		o.logger.Warn().EmbedObject(ev).Err(ev.Err).Msg("Lookup failed")
	}
}
