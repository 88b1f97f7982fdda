// Package client provides the PoiskKino lookup client: response caching,
// a single-slot request gate and status classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/poiskkino-client/pkg/cache"
	"github.com/Sternrassler/poiskkino-client/pkg/gate"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
	"github.com/Sternrassler/poiskkino-client/pkg/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is the PoiskKino API host.
	DefaultBaseURL = "https://api.poiskkino.dev"

	// DefaultUserAgent identifies the client to PoiskKino.
	DefaultUserAgent = "poiskkino-client/1.0"

	// DefaultTimeout bounds a single outbound call.
	DefaultTimeout = 120 * time.Second

	// APIKeyHeader carries the caller's API key.
	APIKeyHeader = "X-API-KEY"

	// SearchLimit is the number of hits requested per search.
	SearchLimit = 3

	// DefaultMaxBodyBytes caps the response body read per call.
	DefaultMaxBodyBytes = 10 << 20

	apiVersion = "/v1.4"
)

// Client performs cached, serialized PoiskKino lookups.
// A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	gate       *gate.Gate
	searches   *cache.Store[models.SearchResponse]
	movies     *cache.Store[models.Movie]
	seasons    *cache.Store[models.Season]
	tracker    *ratelimit.Tracker
	observer   Observer
	flight     singleflight.Group
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without the version prefix.
	BaseURL string

	// UserAgent header sent on every request.
	UserAgent string

	// Timeout bounds each outbound call, gate wait excluded.
	Timeout time.Duration

	// Cache lifetimes. NegativeTTL must be shorter than PositiveTTL.
	PositiveTTL time.Duration
	NegativeTTL time.Duration

	// CoalesceRequests shares one outbound call among concurrent lookups of
	// the same key. Each caller still returns as soon as its own context is
	// done; the shared call runs detached from any single caller.
	CoalesceRequests bool

	// MaxBodyBytes caps the response body size. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// HTTPClient overrides the shared HTTP client (optional).
	HTTPClient *http.Client

	// Tracker records daily request usage (optional).
	Tracker *ratelimit.Tracker

	// Observer receives every outcome. Defaults to a LogObserver.
	Observer Observer

	// Now overrides the cache clock (optional, for tests).
	Now func() time.Time
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		PositiveTTL: cache.PositiveTTL,
		NegativeTTL: cache.NegativeTTL,
	}
}

// New creates a new PoiskKino client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	if cfg.PositiveTTL <= 0 || cfg.NegativeTTL <= 0 {
		return nil, fmt.Errorf("cache ttls must be positive")
	}
	if cfg.NegativeTTL >= cfg.PositiveTTL {
		return nil, fmt.Errorf("negative ttl (%s) must be shorter than positive ttl (%s)", cfg.NegativeTTL, cfg.PositiveTTL)
	}

	logger := log.With().Str("component", "poiskkino-client").Logger()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	observer := cfg.Observer
	if observer == nil {
		observer = NewLogObserver(logger)
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		gate:       gate.New(),
		tracker:    cfg.Tracker,
		observer:   observer,
		config:     cfg,
		logger:     logger,
	}
	if cfg.Now != nil {
		c.searches = cache.NewStore(cache.KindSearch, cache.WithClock[models.SearchResponse](cfg.Now))
		c.movies = cache.NewStore(cache.KindMovie, cache.WithClock[models.Movie](cfg.Now))
		c.seasons = cache.NewStore(cache.KindSeason, cache.WithClock[models.Season](cfg.Now))
	} else {
		c.searches = cache.NewStore[models.SearchResponse](cache.KindSearch)
		c.movies = cache.NewStore[models.Movie](cache.KindMovie)
		c.seasons = cache.NewStore[models.Season](cache.KindSeason)
	}
	return c, nil
}

// Search looks up titles by name. A year of 0 means no year filter.
func (c *Client) Search(ctx context.Context, title string, year int, apiKey string) Result[models.SearchResponse] {
	query := url.Values{}
	query.Set("query", title)
	query.Set("limit", strconv.Itoa(SearchLimit))
	if year > 0 {
		query.Set("year", strconv.Itoa(year))
	}

	return lookup(ctx, c, apiKey, lookupRequest[models.SearchResponse]{
		event:  Event{Op: OpSearch, Title: title, Year: year},
		key:    cache.SearchKey(title, year),
		store:  c.searches,
		path:   "/movie/search",
		query:  query,
		decode: decodeJSON[models.SearchResponse],
	})
}

// GetByID looks up the full record of a movie or series.
func (c *Client) GetByID(ctx context.Context, id int, apiKey string) Result[models.Movie] {
	return lookup(ctx, c, apiKey, lookupRequest[models.Movie]{
		event:  Event{Op: OpMovie, ID: id},
		key:    cache.MovieKey(id),
		store:  c.movies,
		path:   "/movie/" + strconv.Itoa(id),
		decode: decodeJSON[models.Movie],
	})
}

// GetSeason looks up one season of a series, episodes included.
// An empty season collection is reported as OutcomeNotFound and not cached.
func (c *Client) GetSeason(ctx context.Context, parentID, seasonNumber int, apiKey string) Result[models.Season] {
	query := url.Values{}
	query.Set("movieId", strconv.Itoa(parentID))
	query.Set("number", strconv.Itoa(seasonNumber))

	return lookup(ctx, c, apiKey, lookupRequest[models.Season]{
		event:  Event{Op: OpSeason, ParentID: parentID, SeasonNumber: seasonNumber},
		key:    cache.SeasonKey(parentID, seasonNumber),
		store:  c.seasons,
		path:   "/season",
		query:  query,
		decode: decodeSeason,
	})
}

// Quota returns today's request usage, or nil when no tracker is configured.
func (c *Client) Quota(ctx context.Context) (*ratelimit.QuotaState, error) {
	if c.tracker == nil {
		return nil, nil
	}
	return c.tracker.State(ctx)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// lookupRequest describes one lookup: where it is cached and how it is fetched.
type lookupRequest[T any] struct {
	event  Event
	key    cache.Key
	store  *cache.Store[T]
	path   string
	query  url.Values
	decode func([]byte) (*T, error)
}

// lookup runs the fixed sequence: key check, cache, gate, call, classify.
func lookup[T any](ctx context.Context, c *Client, apiKey string, req lookupRequest[T]) (res Result[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = recovered[T](c, req.event.Op, r)
		}

		ev := req.event
		ev.Outcome = res.Outcome
		ev.StatusCode = res.StatusCode
		ev.Message = res.Message
		ev.Cached = res.Cached
		ev.Err = res.Err
		ev.Duration = time.Since(start)
		c.observer.Observe(ctx, ev)
	}()

	if strings.TrimSpace(apiKey) == "" {
		return Result[T]{Outcome: OutcomeUnconfigured, Err: ErrUnconfigured}
	}

	if entry, ok := req.store.Get(req.key); ok {
		if entry.Negative() {
			return Result[T]{Outcome: OutcomeNotFound, StatusCode: http.StatusNotFound, Err: ErrNotFound, Cached: true}
		}
		return Result[T]{Value: entry.Value, Outcome: OutcomeOK, Cached: true}
	}

	if !c.config.CoalesceRequests {
		return fetch(ctx, c, apiKey, req)
	}

	if err := ctx.Err(); err != nil {
		return cancelled[T](err)
	}

	// The shared call outlives any single caller; it is bounded by the call
	// timeout only. singleflight re-panics DoChan panics on its own goroutine,
	// so they are recovered inside.
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(string(req.key), func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				v = recovered[T](c, req.event.Op, r)
			}
		}()
		return fetch[T](shared, c, apiKey, req), nil
	})

	select {
	case r := <-ch:
		return r.Val.(Result[T])
	case <-ctx.Done():
		return cancelled[T](ctx.Err())
	}
}

// recovered turns a panic in the lookup path into a transport failure.
func recovered[T any](c *Client, op Op, r any) Result[T] {
	c.logger.Error().
		Str("op", string(op)).
		Interface("panic", r).
		Msg("Recovered panic in lookup")
	return Result[T]{
		Outcome: OutcomeTransportFailure,
		Err:     fmt.Errorf("%w: panic: %v", ErrTransport, r),
	}
}

func cancelled[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeCancelled, Err: fmt.Errorf("%w: %w", ErrCancelled, err)}
}

// fetch performs the outbound call while holding the gate.
func fetch[T any](ctx context.Context, c *Client, apiKey string, req lookupRequest[T]) Result[T] {
	if err := c.gate.Acquire(ctx); err != nil {
		return cancelled[T](err)
	}
	defer c.gate.Release()

	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.endpoint(req.path, req.query), nil)
	if err != nil {
		return Result[T]{Outcome: OutcomeTransportFailure, Err: fmt.Errorf("%w: build request: %w", ErrTransport, err)}
	}
	httpReq.Header.Set(APIKeyHeader, apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)

	// Nothing is sent, and nothing counted, once the call context is done.
	if err := callCtx.Err(); err != nil {
		return failure[T](ctx, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return failure[T](ctx, err)
	}
	defer resp.Body.Close()
	c.recordRequest(ctx)

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes+1))
	if err != nil {
		return failure[T](ctx, err)
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return Result[T]{
			Outcome:    OutcomeTransportFailure,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: response body exceeds %d bytes", ErrTransport, c.config.MaxBodyBytes),
		}
	}

	switch status := resp.StatusCode; {
	case status == http.StatusTooManyRequests || status == http.StatusForbidden:
		msg := errorMessage(body)
		c.recordThrottle(ctx, status, msg)
		return Result[T]{
			Outcome:    OutcomeRateLimited,
			StatusCode: status,
			Message:    msg,
			Err:        newAPIError(status, OutcomeRateLimited, msg),
		}

	case status == http.StatusNotFound:
		req.store.Put(req.key, nil, c.config.NegativeTTL)
		return Result[T]{Outcome: OutcomeNotFound, StatusCode: status, Err: newAPIError(status, OutcomeNotFound, "")}

	case status < 200 || status >= 300:
		return Result[T]{
			Outcome:    OutcomeTransportFailure,
			StatusCode: status,
			Err:        newAPIError(status, OutcomeTransportFailure, ""),
		}
	}

	value, err := req.decode(body)
	if err != nil {
		return Result[T]{
			Outcome:    OutcomeDecodeFailure,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %w", ErrDecode, err),
		}
	}
	if value == nil {
		return Result[T]{Outcome: OutcomeNotFound, StatusCode: resp.StatusCode, Err: ErrNotFound}
	}

	req.store.Put(req.key, value, c.config.PositiveTTL)
	return Result[T]{Value: value, Outcome: OutcomeOK, StatusCode: resp.StatusCode}
}

// failure classifies an error returned while sending or reading.
// The caller's context takes precedence over the per-call deadline.
func failure[T any](ctx context.Context, err error) Result[T] {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled[T](ctxErr)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return Result[T]{Outcome: OutcomeTimedOut, Err: fmt.Errorf("%w: %w", ErrTimedOut, err)}
	}

	return Result[T]{Outcome: OutcomeTransportFailure, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + apiVersion + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// recordRequest counts the call against the daily quota. Tracker errors never
// affect the lookup.
func (c *Client) recordRequest(ctx context.Context) {
	if c.tracker == nil {
		return
	}
	if _, err := c.tracker.RecordRequest(context.WithoutCancel(ctx)); err != nil {
		c.logger.Warn().Err(err).Msg("Quota tracking failed")
	}
}

func (c *Client) recordThrottle(ctx context.Context, status int, message string) {
	if c.tracker == nil {
		return
	}
	if err := c.tracker.RecordThrottle(context.WithoutCancel(ctx), status, message); err != nil {
		c.logger.Warn().Err(err).Msg("Quota throttle tracking failed")
	}
}

// decodeJSON decodes a 2xx body. A JSON null is not a usable payload.
func decodeJSON[T any](body []byte) (*T, error) {
	var v *T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New("empty payload")
	}
	return v, nil
}

// decodeSeason returns the first record of a season collection, nil when empty.
func decodeSeason(body []byte) (*models.Season, error) {
	page, err := decodeJSON[models.SeasonResponse](body)
	if err != nil {
		return nil, err
	}
	season, ok := page.First()
	if !ok {
		return nil, nil
	}
	return season, nil
}
