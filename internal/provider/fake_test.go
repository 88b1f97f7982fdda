package provider

import (
	"context"
	"sync"

	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

// fakeLookuper serves canned results and records calls.
type fakeLookuper struct {
	mu       sync.Mutex
	searches map[string]client.Result[models.SearchResponse]
	movies   map[int]client.Result[models.Movie]
	seasons  map[[2]int]client.Result[models.Season]
	calls    []string
	keys     []string
}

func newFakeLookuper() *fakeLookuper {
	return &fakeLookuper{
		searches: make(map[string]client.Result[models.SearchResponse]),
		movies:   make(map[int]client.Result[models.Movie]),
		seasons:  make(map[[2]int]client.Result[models.Season]),
	}
}

func (f *fakeLookuper) record(call, apiKey string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.keys = append(f.keys, apiKey)
}

func (f *fakeLookuper) Search(_ context.Context, title string, _ int, apiKey string) client.Result[models.SearchResponse] {
	f.record("search:"+title, apiKey)
	if res, ok := f.searches[title]; ok {
		return res
	}
	return client.Result[models.SearchResponse]{Value: &models.SearchResponse{}, Outcome: client.OutcomeOK}
}

func (f *fakeLookuper) GetByID(_ context.Context, id int, apiKey string) client.Result[models.Movie] {
	f.record("movie", apiKey)
	if res, ok := f.movies[id]; ok {
		return res
	}
	return client.Result[models.Movie]{Outcome: client.OutcomeNotFound, Err: client.ErrNotFound}
}

func (f *fakeLookuper) GetSeason(_ context.Context, parentID, seasonNumber int, apiKey string) client.Result[models.Season] {
	f.record("season", apiKey)
	if res, ok := f.seasons[[2]int{parentID, seasonNumber}]; ok {
		return res
	}
	return client.Result[models.Season]{Outcome: client.OutcomeNotFound, Err: client.ErrNotFound}
}

func (f *fakeLookuper) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func okResult[T any](v *T) client.Result[T] {
	return client.Result[T]{Value: v, Outcome: client.OutcomeOK}
}

func failedResult[T any](outcome client.Outcome) client.Result[T] {
	return client.Result[T]{Outcome: outcome, Err: outcome.Sentinel()}
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }

const testKey = "provider-test-key"

func matrixMovie() *models.Movie {
	return &models.Movie{
		ID:          301,
		Name:        "Матрица",
		EnName:      "The Matrix",
		Year:        intPtr(1999),
		Description: "Жизнь Томаса Андерсона разделена на две части.",
		Slogan:      "Добро пожаловать в реальный мир",
		Rating:      &models.Rating{Kinopoisk: floatPtr(8.5), IMDb: floatPtr(8.7)},
		ExternalID:  &models.ExternalID{IMDb: "tt0133093", TMDb: intPtr(603), KpHD: "4e6f1a"},
		Poster:      &models.Image{URL: "https://image.openmoviedb.com/poster.jpg"},
		Backdrop:    &models.Image{URL: "https://image.tmdb.org/t/p/original/backdrop.jpg"},
		Genres:      []models.Name{{Name: "фантастика"}, {Name: ""}, {Name: "боевик"}},
		Countries:   []models.Name{{Name: "США"}},
		Persons: []models.Person{
			{ID: 1, Name: "Киану Ривз", Profession: "актеры", Description: "Neo", Photo: "https://st.kp.yandex.net/1.jpg"},
			{ID: 2, EnName: "Lana Wachowski", EnProfession: "director", Photo: "https://image.tmdb.org/p/2.jpg"},
		},
	}
}

func matrixSearch() *models.SearchResponse {
	return &models.SearchResponse{
		Docs: []models.Item{
			{ID: 301, Name: "Матрица", Year: intPtr(1999), IsSeries: boolPtr(false), Poster: &models.Image{URL: "https://image.tmdb.org/poster.jpg"}},
			{ID: 77044, Name: "Матрица: Воскрешение", Year: intPtr(2021), IsSeries: boolPtr(false)},
			{ID: 9001, Name: "Матрица", Year: intPtr(2024), IsSeries: boolPtr(true)},
		},
		Total: 3,
	}
}
