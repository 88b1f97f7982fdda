// Package testutil provides testing utilities for the PoiskKino client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock PoiskKino endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPoiskKino is a configurable mock PoiskKino API server for testing.
// Handlers are keyed by URL path, for example "/v1.4/movie/301".
type MockPoiskKino struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount int
	inFlight     int
	peakInFlight int
	lastHeader   http.Header
	lastQuery    map[string]string
}

// NewMockPoiskKino creates and starts a mock server.
func NewMockPoiskKino() *MockPoiskKino {
	mock := &MockPoiskKino{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.inFlight++
		if mock.inFlight > mock.peakInFlight {
			mock.peakInFlight = mock.inFlight
		}
		mock.lastHeader = r.Header.Clone()
		mock.lastQuery = make(map[string]string)
		for key := range r.URL.Query() {
			mock.lastQuery[key] = r.URL.Query().Get(key)
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.inFlight--
			mock.mu.Unlock()
		}()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"statusCode":404,"message":"no handler for %s"}`, r.URL.Path)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPoiskKino) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPoiskKino) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPoiskKino) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.peakInFlight = 0
	m.lastHeader = nil
	m.lastQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPoiskKino) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockPoiskKino) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetMovieResponse configures the item endpoint for id.
func (m *MockPoiskKino) SetMovieResponse(id int, resp MockResponse) {
	m.SetResponse(fmt.Sprintf("/v1.4/movie/%d", id), resp)
}

// SetSearchResponse configures the search endpoint.
func (m *MockPoiskKino) SetSearchResponse(resp MockResponse) {
	m.SetResponse("/v1.4/movie/search", resp)
}

// SetSeasonResponse configures the season endpoint.
func (m *MockPoiskKino) SetSeasonResponse(resp MockResponse) {
	m.SetResponse("/v1.4/season", resp)
}

// RequestCount returns the number of requests made to the server.
func (m *MockPoiskKino) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PeakInFlight returns the highest number of concurrently served requests.
func (m *MockPoiskKino) PeakInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.peakInFlight
}

// LastHeader returns the headers of the most recent request.
func (m *MockPoiskKino) LastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

// LastQuery returns the query parameters of the most recent request.
func (m *MockPoiskKino) LastQuery() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

// NewJSONResponse creates a 200 OK response carrying body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"statusCode":404,"message":"Not Found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 response with message in the body.
func NewRateLimitResponse(message string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       fmt.Sprintf(`{"statusCode":429,"message":%q}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewForbiddenResponse creates a 403 response, sent when the daily limit is spent.
func NewForbiddenResponse(message string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       fmt.Sprintf(`{"statusCode":403,"message":%q,"error":"Forbidden"}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"statusCode":500,"message":"Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// Fixture payloads shared by tests.
const (
	MovieJSON = `{
		"id": 301,
		"name": "Матрица",
		"enName": "The Matrix",
		"alternativeName": "The Matrix",
		"type": "movie",
		"year": 1999,
		"description": "Жизнь Томаса Андерсона разделена на две части.",
		"rating": {"kp": 8.5, "kinopoisk": 8.5, "imdb": 8.7},
		"externalId": {"imdb": "tt0133093", "tmdb": 603},
		"poster": {"url": "https://image.openmoviedb.com/kinopoisk-images/1/poster.jpg", "previewUrl": "https://image.openmoviedb.com/kinopoisk-images/1/preview.jpg"},
		"backdrop": {"url": "https://image.tmdb.org/t/p/original/backdrop.jpg"},
		"genres": [{"name": "фантастика"}, {"name": "боевик"}],
		"countries": [{"name": "США"}],
		"persons": [
			{"id": 1, "name": "Киану Ривз", "enName": "Keanu Reeves", "profession": "актеры", "enProfession": "actor", "description": "Neo"},
			{"id": 2, "name": "Лана Вачовски", "enName": "Lana Wachowski", "profession": "режиссеры", "enProfession": "director"}
		],
		"movieLength": 136
	}`

	SearchJSON = `{
		"docs": [
			{"id": 301, "name": "Матрица", "enName": "The Matrix", "type": "movie", "year": 1999, "isSeries": false},
			{"id": 464963, "name": "Игра престолов", "enName": "Game of Thrones", "type": "tv-series", "year": 2011, "isSeries": true}
		],
		"total": 2, "limit": 3, "page": 1, "pages": 1
	}`

	SeasonJSON = `{
		"docs": [
			{
				"movieId": 464963,
				"number": 1,
				"episodesCount": 2,
				"name": "Сезон 1",
				"airDate": "2011-04-17T00:00:00.000Z",
				"episodes": [
					{"number": 1, "name": "Зима близко", "enName": "Winter Is Coming", "airDate": "2011-04-17T00:00:00.000Z"},
					{"number": 2, "name": "Королевский тракт", "enName": "The Kingsroad", "airDate": "2011-04-24T00:00:00.000Z"}
				]
			}
		],
		"total": 1, "limit": 10, "page": 1, "pages": 1
	}`

	EmptySeasonJSON = `{"docs": [], "total": 0, "limit": 10, "page": 1, "pages": 0}`
)
