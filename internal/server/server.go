// Package server exposes PoiskKino lookups over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/poiskkino-client/internal/provider"
	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/metrics"
	"github.com/Sternrassler/poiskkino-client/pkg/ratelimit"
)

// StatusClientClosedRequest is reported when the caller went away first.
const StatusClientClosedRequest = 499

// Backend is what the server needs from the lookup client.
type Backend interface {
	provider.Lookuper
	Quota(ctx context.Context) (*ratelimit.QuotaState, error)
}

var _ Backend = (*client.Client)(nil)

// Options configures a Server.
type Options struct {
	// APIKey is used when a request carries no X-API-KEY header.
	APIKey string

	// IgnoreTMDbImages applies to episode stills.
	IgnoreTMDbImages bool
}

// Server serves lookups. It holds no state besides its backend.
type Server struct {
	backend Backend
	opts    Options
	router  *mux.Router
	logger  zerolog.Logger
}

// New creates a Server with all routes registered.
func New(backend Backend, opts Options) *Server {
	s := &Server{
		backend: backend,
		opts:    opts,
		router:  mux.NewRouter(),
		logger:  logging.NewLogger("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	v1.HandleFunc("/movie/{id:[0-9]+}", s.handleMovie).Methods(http.MethodGet)
	v1.HandleFunc("/season/{parentId:[0-9]+}/{number:[0-9]+}", s.handleSeason).Methods(http.MethodGet)
	v1.HandleFunc("/episode/{seriesId:[0-9]+}/{season:[0-9]+}/{episode:[0-9]+}", s.handleEpisode).Methods(http.MethodGet)
	v1.HandleFunc("/quota", s.handleQuota).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// StatusFor maps a lookup outcome to the HTTP status the server answers with.
func StatusFor(outcome client.Outcome) int {
	switch outcome {
	case client.OutcomeOK:
		return http.StatusOK
	case client.OutcomeNotFound:
		return http.StatusNotFound
	case client.OutcomeUnconfigured:
		return http.StatusServiceUnavailable
	case client.OutcomeRateLimited:
		return http.StatusTooManyRequests
	case client.OutcomeTimedOut:
		return http.StatusGatewayTimeout
	case client.OutcomeCancelled:
		return StatusClientClosedRequest
	default:
		return http.StatusBadGateway
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Outcome string `json:"outcome"`
	Status  int    `json:"upstreamStatus,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeBadRequest(w, "query parameter is required")
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 0 {
			writeBadRequest(w, "year must be a positive number")
			return
		}
		year = y
	}

	writeResult(w, s.backend.Search(r.Context(), query, year, s.apiKey(r)))
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, s.backend.GetByID(r.Context(), id, s.apiKey(r)))
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	parentID, ok := pathInt(w, r, "parentId")
	if !ok {
		return
	}
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	writeResult(w, s.backend.GetSeason(r.Context(), parentID, number, s.apiKey(r)))
}

func (s *Server) handleEpisode(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := pathInt(w, r, "seriesId")
	if !ok {
		return
	}
	season, ok := pathInt(w, r, "season")
	if !ok {
		return
	}
	episode, ok := pathInt(w, r, "episode")
	if !ok {
		return
	}

	key := s.apiKey(r)
	if strings.TrimSpace(key) == "" {
		writeOutcome(w, client.OutcomeUnconfigured, 0, client.ErrUnconfigured.Error())
		return
	}

	p := provider.NewEpisodeProvider(s.backend, provider.Options{APIKey: key, IgnoreTMDbImages: s.opts.IgnoreTMDbImages})
	md, err := p.Metadata(r.Context(), seriesID, season, episode)
	if err != nil {
		writeOutcome(w, outcomeOf(err), 0, err.Error())
		return
	}
	if !md.HasMetadata {
		writeOutcome(w, client.OutcomeNotFound, 0, "episode not found")
		return
	}
	writeJSON(w, http.StatusOK, md)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	state, err := s.backend.Quota(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Quota lookup failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if state == nil {
		writeJSON(w, http.StatusOK, map[string]any{"tracked": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tracked":      true,
		"day":          state.Day,
		"used":         state.Used,
		"limit":        state.Limit,
		"remaining":    state.Remaining(),
		"lastThrottle": state.LastThrottle,
	})
}

// apiKey prefers the caller's own key over the configured one.
func (s *Server) apiKey(r *http.Request) string {
	if key := r.Header.Get(client.APIKeyHeader); key != "" {
		return key
	}
	return s.opts.APIKey
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int(logging.FieldStatus, rec.status).
			Dur(logging.FieldDuration, time.Since(start)).
			Msg("Request served")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeResult[T any](w http.ResponseWriter, res client.Result[T]) {
	if res.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if res.OK() {
		writeJSON(w, http.StatusOK, res.Value)
		return
	}

	msg := res.Message
	if msg == "" && res.Err != nil {
		msg = res.Err.Error()
	}
	writeOutcome(w, res.Outcome, res.StatusCode, msg)
}

func writeOutcome(w http.ResponseWriter, outcome client.Outcome, upstream int, msg string) {
	writeJSON(w, StatusFor(outcome), errorResponse{Error: msg, Outcome: string(outcome), Status: upstream})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Outcome: "bad_request"})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathInt reads a numeric route variable, answering 400 when it does not fit an int.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeBadRequest(w, name+" must be a number")
		return 0, false
	}
	return v, true
}

// outcomeOf recovers the outcome from a wrapped sentinel.
func outcomeOf(err error) client.Outcome {
	for _, o := range []client.Outcome{
		client.OutcomeUnconfigured,
		client.OutcomeRateLimited,
		client.OutcomeCancelled,
		client.OutcomeTimedOut,
		client.OutcomeDecodeFailure,
		client.OutcomeNotFound,
	} {
		if errors.Is(err, o.Sentinel()) {
			return o
		}
	}
	return client.OutcomeTransportFailure
}
