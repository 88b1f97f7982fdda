package provider

import (
	"context"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

// Query identifies the movie or series a host is asking about.
type Query struct {
	Name        string
	Year        int
	ProviderIDs map[string]string
}

// SearchResult is one candidate offered to the host.
type SearchResult struct {
	Name        string
	Year        int
	Overview    string
	ImageURL    string
	ProviderIDs map[string]string
}

// Person is a cast or crew credit.
type Person struct {
	Name     string
	Kind     PersonKind
	Role     string
	ImageURL string
}

// Metadata is the host-facing record of a movie or series.
type Metadata struct {
	HasMetadata     bool
	Name            string
	OriginalName    string
	Overview        string
	Tagline         string
	Year            int
	Genres          []string
	Countries       []string
	CommunityRating *float64
	CriticRating    *float64
	ProviderIDs     map[string]string
	People          []Person
}

// itemProvider serves movies or series, depending on series.
type itemProvider struct {
	base
	series bool
}

// MovieProvider serves non-series titles: films, cartoons, anime films.
type MovieProvider struct {
	itemProvider
}

// NewMovieProvider creates a MovieProvider.
func NewMovieProvider(lookup Lookuper, opts Options) *MovieProvider {
	return &MovieProvider{itemProvider{base: newBase(lookup, opts, "movie-provider")}}
}

// SeriesProvider serves titles flagged as series.
type SeriesProvider struct {
	itemProvider
}

// NewSeriesProvider creates a SeriesProvider.
func NewSeriesProvider(lookup Lookuper, opts Options) *SeriesProvider {
	return &SeriesProvider{itemProvider{base: newBase(lookup, opts, "series-provider"), series: true}}
}

// Search returns the hits of the provider's kind. A blank name or API key
// yields no results.
func (p *itemProvider) Search(ctx context.Context, name string, year int) ([]SearchResult, error) {
	if name == "" || p.opts.APIKey == "" {
		return nil, nil
	}

	res := p.lookup.Search(ctx, name, year, p.opts.APIKey)
	if !res.OK() {
		return nil, lookupErr(res)
	}

	var results []SearchResult
	for _, item := range res.Value.Docs {
		if item.Series() != p.series {
			continue
		}
		results = append(results, SearchResult{
			Name:        item.DisplayName(),
			Year:        intValue(item.Year),
			Overview:    item.Description,
			ImageURL:    p.posterURL(item.Poster),
			ProviderIDs: externalIDs(item.ID, item.ExternalID),
		})
	}
	return results, nil
}

// Metadata resolves q by its PoiskKino id when known, else by the first
// search hit. HasMetadata is false when nothing matched.
func (p *itemProvider) Metadata(ctx context.Context, q Query) (*Metadata, error) {
	if p.opts.APIKey == "" {
		return &Metadata{}, nil
	}

	var movie *models.Movie
	if id, ok := PoiskKinoID(q.ProviderIDs); ok {
		res := p.lookup.GetByID(ctx, id, p.opts.APIKey)
		if res.OK() {
			movie = res.Value
		} else {
			p.logger.Debug().
				Int(logging.FieldID, id).
				Str(logging.FieldOutcome, string(res.Outcome)).
				Msg("Lookup by id failed, falling back to search")
		}
	}

	if movie == nil {
		hits, err := p.Search(ctx, q.Name, q.Year)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			return &Metadata{}, nil
		}
		id, ok := PoiskKinoID(hits[0].ProviderIDs)
		if !ok {
			return &Metadata{}, nil
		}
		res := p.lookup.GetByID(ctx, id, p.opts.APIKey)
		if !res.OK() {
			return &Metadata{}, lookupErr(res)
		}
		movie = res.Value
	}

	return p.metadata(q, movie), nil
}

// metadata copies what the host needs out of the shared payload.
func (p *itemProvider) metadata(q Query, m *models.Movie) *Metadata {
	out := &Metadata{
		HasMetadata:  true,
		Name:         firstNonEmpty(m.Name, m.EnName, q.Name),
		OriginalName: firstNonEmpty(m.EnName, m.AlternativeName),
		Overview:     firstNonEmpty(m.Description, m.ShortDescription),
		Tagline:      m.Slogan,
		Year:         q.Year,
		ProviderIDs:  copyIDs(q.ProviderIDs),
	}
	if m.Year != nil {
		out.Year = *m.Year
	}
	for k, v := range externalIDs(m.ID, m.ExternalID) {
		out.ProviderIDs[k] = v
	}

	for _, g := range m.Genres {
		if g.Name != "" {
			out.Genres = append(out.Genres, g.Name)
		}
	}
	for _, c := range m.Countries {
		if c.Name != "" {
			out.Countries = append(out.Countries, c.Name)
		}
	}

	if m.Rating != nil {
		if m.Rating.IMDb != nil {
			v := *m.Rating.IMDb
			out.CommunityRating = &v
		}
		if m.Rating.Kinopoisk != nil {
			v := *m.Rating.Kinopoisk
			out.CriticRating = &v
		}
	}

	for _, person := range m.Persons {
		kind := ClassifyProfession(firstNonEmpty(person.Profession, person.EnProfession))
		credit := Person{
			Name:     firstNonEmpty(person.Name, person.EnName),
			Kind:     kind,
			ImageURL: p.imageURL(person.Photo),
		}
		if kind == PersonActor {
			credit.Role = person.Description
		}
		out.People = append(out.People, credit)
	}

	return out
}

func (p *itemProvider) posterURL(img *models.Image) string {
	if img == nil {
		return ""
	}
	return p.imageURL(img.URL)
}
