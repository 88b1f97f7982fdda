package provider

import (
	"context"
	"slices"
	"strings"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

// IsTMDbURL reports whether url points at tmdb.org.
func IsTMDbURL(url string) bool {
	return strings.Contains(strings.ToLower(url), "tmdb.org")
}

// ItemKind is the kind of library item an image request is for.
type ItemKind string

const (
	ItemMovie  ItemKind = "movie"
	ItemSeries ItemKind = "series"
	ItemSeason ItemKind = "season"
)

// ImageType distinguishes posters from backdrops.
type ImageType string

const (
	ImagePrimary  ImageType = "Primary"
	ImageBackdrop ImageType = "Backdrop"
)

// ItemRef identifies the item images are requested for.
type ItemRef struct {
	Kind        ItemKind
	Name        string
	Year        int
	ProviderIDs map[string]string
}

// RemoteImage is an image offered to the host.
type RemoteImage struct {
	URL  string
	Type ImageType
}

// ImageProvider serves posters and backdrops.
type ImageProvider struct {
	base
}

// NewImageProvider creates an ImageProvider.
func NewImageProvider(lookup Lookuper, opts Options) *ImageProvider {
	return &ImageProvider{base: newBase(lookup, opts, "image-provider")}
}

// Images returns the poster and backdrop of ref. The item is resolved by its
// PoiskKino id when known, else by the best search match. Seasons are never
// searched for by name.
func (p *ImageProvider) Images(ctx context.Context, ref ItemRef) ([]RemoteImage, error) {
	if p.opts.APIKey == "" {
		return nil, nil
	}

	if id, ok := PoiskKinoID(ref.ProviderIDs); ok {
		if res := p.lookup.GetByID(ctx, id, p.opts.APIKey); res.OK() {
			return p.collect(ref, res.Value.Poster, res.Value.Backdrop), nil
		}
	}

	if ref.Kind == ItemSeason || strings.TrimSpace(ref.Name) == "" {
		return nil, nil
	}

	res := p.lookup.Search(ctx, ref.Name, ref.Year, p.opts.APIKey)
	if !res.OK() {
		return nil, lookupErr(res)
	}

	hit, ok := bestMatch(res.Value.Docs, ref)
	if !ok {
		return nil, nil
	}

	if hit.ID > 0 {
		if full := p.lookup.GetByID(ctx, hit.ID, p.opts.APIKey); full.OK() {
			return p.collect(ref, full.Value.Poster, full.Value.Backdrop), nil
		}
	}
	return p.collect(ref, hit.Poster, hit.Backdrop), nil
}

func (p *ImageProvider) collect(ref ItemRef, poster, backdrop *models.Image) []RemoteImage {
	var images []RemoteImage
	filtered := 0
	add := func(img *models.Image, typ ImageType) {
		if img == nil || img.URL == "" {
			return
		}
		if url := p.imageURL(img.URL); url != "" {
			images = append(images, RemoteImage{URL: url, Type: typ})
			return
		}
		filtered++
	}
	add(poster, ImagePrimary)
	add(backdrop, ImageBackdrop)

	if filtered > 0 {
		p.logger.Debug().
			Str(logging.FieldTitle, ref.Name).
			Int("filtered", filtered).
			Msg("Filtered out TMDb images")
	}
	return images
}

// bestMatch picks the search hit of ref's kind, preferring a matching year,
// then an exact (case-insensitive) title.
func bestMatch(docs []models.Item, ref ItemRef) (models.Item, bool) {
	wantSeries := ref.Kind == ItemSeries
	var candidates []models.Item
	for _, item := range docs {
		if item.Series() == wantSeries {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return models.Item{}, false
	}

	name := strings.ToLower(ref.Name)
	score := func(item models.Item) int {
		s := 0
		if item.Year != nil && *item.Year == ref.Year {
			s += 2
		}
		if strings.ToLower(item.DisplayName()) == name {
			s++
		}
		return s
	}
	slices.SortStableFunc(candidates, func(a, b models.Item) int {
		return score(b) - score(a)
	})
	return candidates[0], true
}
