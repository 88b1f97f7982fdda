// Package provider turns PoiskKino payloads into host-facing metadata records.
//
// Providers are thin consumers of the lookup client: they choose which lookups
// to run, never mutate cached payloads, and copy what they return.
package provider

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

// Provider ID keys used in ProviderIDs maps.
const (
	ProviderPoiskKino = "PoiskKino"
	ProviderKinopoisk = "Kinopoisk"
	ProviderIMDb      = "Imdb"
	ProviderTMDb      = "Tmdb"
)

// Lookuper is the part of the lookup client providers depend on.
type Lookuper interface {
	Search(ctx context.Context, title string, year int, apiKey string) client.Result[models.SearchResponse]
	GetByID(ctx context.Context, id int, apiKey string) client.Result[models.Movie]
	GetSeason(ctx context.Context, parentID, seasonNumber int, apiKey string) client.Result[models.Season]
}

var _ Lookuper = (*client.Client)(nil)

// Options configures providers.
type Options struct {
	// APIKey is passed on every lookup. Blank keys yield empty results.
	APIKey string

	// IgnoreTMDbImages drops image URLs hosted on tmdb.org.
	IgnoreTMDbImages bool
}

// base holds what every provider shares.
type base struct {
	lookup Lookuper
	opts   Options
	logger zerolog.Logger
}

func newBase(lookup Lookuper, opts Options, component string) base {
	return base{
		lookup: lookup,
		opts:   opts,
		logger: logging.NewLogger(component),
	}
}

// imageURL returns url unless it is empty or filtered out.
func (b base) imageURL(url string) string {
	if url == "" || (b.opts.IgnoreTMDbImages && IsTMDbURL(url)) {
		return ""
	}
	return url
}

// lookupErr returns the result's error when it says nothing about the
// resource. Not-found is not an error for providers.
func lookupErr[T any](res client.Result[T]) error {
	if res.Outcome.Unavailable() {
		return res.Err
	}
	return nil
}

// PoiskKinoID extracts the PoiskKino id from a provider id map.
func PoiskKinoID(ids map[string]string) (int, bool) {
	raw, ok := ids[ProviderPoiskKino]
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// externalIDs converts PoiskKino cross references into provider ids.
func externalIDs(id int, ext *models.ExternalID) map[string]string {
	ids := map[string]string{ProviderPoiskKino: strconv.Itoa(id)}
	if ext == nil {
		return ids
	}
	if ext.KpHD != "" {
		ids[ProviderKinopoisk] = ext.KpHD
	}
	if ext.IMDb != "" {
		ids[ProviderIMDb] = ext.IMDb
	}
	if ext.TMDb != nil {
		ids[ProviderTMDb] = strconv.Itoa(*ext.TMDb)
	}
	return ids
}

func copyIDs(ids map[string]string) map[string]string {
	out := make(map[string]string, len(ids))
	for k, v := range ids {
		out[k] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
