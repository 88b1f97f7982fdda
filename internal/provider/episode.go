package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
)

// SeasonMetadata is the host-facing record of a season.
type SeasonMetadata struct {
	HasMetadata  bool
	Name         string
	Overview     string
	Number       int
	PremiereDate *time.Time
	ImageURL     string
}

// EpisodeMetadata is the host-facing record of an episode.
type EpisodeMetadata struct {
	HasMetadata  bool
	Name         string
	Overview     string
	Number       int
	SeasonNumber int
	PremiereDate *time.Time
	ImageURL     string
}

// SeasonProvider serves season records of a known series.
type SeasonProvider struct {
	base
}

// NewSeasonProvider creates a SeasonProvider.
func NewSeasonProvider(lookup Lookuper, opts Options) *SeasonProvider {
	return &SeasonProvider{base: newBase(lookup, opts, "season-provider")}
}

// Metadata returns season seasonNumber of the series seriesID.
func (p *SeasonProvider) Metadata(ctx context.Context, seriesID, seasonNumber int) (*SeasonMetadata, error) {
	if p.opts.APIKey == "" || seriesID <= 0 {
		return &SeasonMetadata{}, nil
	}

	res := p.lookup.GetSeason(ctx, seriesID, seasonNumber, p.opts.APIKey)
	if !res.OK() {
		return &SeasonMetadata{}, lookupErr(res)
	}
	s := res.Value

	out := &SeasonMetadata{
		HasMetadata:  true,
		Name:         firstNonEmpty(s.Name, s.EnName, fmt.Sprintf("Season %d", seasonNumber)),
		Overview:     firstNonEmpty(s.Description, s.EnDescription),
		Number:       seasonNumber,
		PremiereDate: parseAirDate(s.AirDate),
	}
	if s.Poster != nil {
		out.ImageURL = p.imageURL(s.Poster.URL)
	}
	return out, nil
}

// EpisodeProvider serves single episodes, picked from their season record.
type EpisodeProvider struct {
	base
}

// NewEpisodeProvider creates an EpisodeProvider.
func NewEpisodeProvider(lookup Lookuper, opts Options) *EpisodeProvider {
	return &EpisodeProvider{base: newBase(lookup, opts, "episode-provider")}
}

// Metadata returns episode episodeNumber of the given season.
func (p *EpisodeProvider) Metadata(ctx context.Context, seriesID, seasonNumber, episodeNumber int) (*EpisodeMetadata, error) {
	if p.opts.APIKey == "" {
		return &EpisodeMetadata{}, nil
	}
	if seriesID <= 0 {
		p.logger.Debug().
			Int(logging.FieldSeason, seasonNumber).
			Int(logging.FieldEpisode, episodeNumber).
			Msg("Cannot determine series id for episode")
		return &EpisodeMetadata{}, nil
	}

	res := p.lookup.GetSeason(ctx, seriesID, seasonNumber, p.opts.APIKey)
	if !res.OK() {
		return &EpisodeMetadata{}, lookupErr(res)
	}

	ep, ok := res.Value.Episode(episodeNumber)
	if !ok {
		return &EpisodeMetadata{}, nil
	}

	out := &EpisodeMetadata{
		HasMetadata:  true,
		Name:         firstNonEmpty(ep.Name, ep.EnName, fmt.Sprintf("Episode %d", episodeNumber)),
		Overview:     firstNonEmpty(ep.Description, ep.EnDescription),
		Number:       ep.Number,
		SeasonNumber: seasonNumber,
		PremiereDate: parseAirDate(ep.AirDate),
	}
	if ep.Still != nil {
		out.ImageURL = p.imageURL(ep.Still.URL)
	}
	return out, nil
}

// parseAirDate accepts RFC 3339 timestamps and plain dates.
func parseAirDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
