// Package metrics exposes the Prometheus metrics of the PoiskKino client.
// All metrics are defined in their respective packages (client, cache, gate,
// ratelimit) via promauto and registered with the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all package metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler serving all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Lookup Metrics (pkg/client):
//   - poiskkino_requests_total{op, outcome} (Counter): Lookups by operation and outcome
//   - poiskkino_request_duration_seconds{op} (Histogram): Duration of lookups that reached the network
//   - poiskkino_errors_total{outcome} (Counter): Lookups that returned no data, by outcome
//
// Cache Metrics (pkg/cache):
//   - poiskkino_cache_hits_total{kind, result} (Counter): Fresh hits, result is "positive" or "negative"
//   - poiskkino_cache_misses_total{kind} (Counter): Misses, stale entries included
//   - poiskkino_cache_evictions_total{kind} (Counter): Stale entries evicted on lookup
//   - poiskkino_cache_entries{kind} (Gauge): Entries currently held
//
// Gate Metrics (pkg/gate):
//   - poiskkino_gate_in_flight (Gauge): 1 while an outbound request holds the gate
//   - poiskkino_gate_wait_seconds (Histogram): Time spent waiting for the gate
//
// Quota Metrics (pkg/ratelimit):
//   - poiskkino_quota_used (Gauge): Outbound requests in the current UTC day
//   - poiskkino_quota_remaining (Gauge): Requests left in the daily budget
//   - poiskkino_rate_limited_total{status} (Counter): Throttled answers by HTTP status
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(poiskkino_cache_hits_total[5m])) /
//   (sum(rate(poiskkino_cache_hits_total[5m])) + sum(rate(poiskkino_cache_misses_total[5m])))
//
//   # Quota Running Low
//   poiskkino_quota_remaining < 20
//
//   # Failure Rate by Outcome
//   sum by (outcome) (rate(poiskkino_errors_total[5m]))
//
//   # P95 Lookup Latency
//   histogram_quantile(0.95, rate(poiskkino_request_duration_seconds_bucket[5m]))
//
//   # Gate Contention
//   histogram_quantile(0.95, rate(poiskkino_gate_wait_seconds_bucket[5m]))
