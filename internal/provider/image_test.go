package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

func TestImageProvider_ByID(t *testing.T) {
	fake := newFakeLookuper()
	fake.movies[301] = okResult(matrixMovie())

	tests := []struct {
		name       string
		ignoreTMDb bool
		want       []RemoteImage
	}{
		{
			name:       "tmdb filtered",
			ignoreTMDb: true,
			want: []RemoteImage{
				{URL: "https://image.openmoviedb.com/poster.jpg", Type: ImagePrimary},
			},
		},
		{
			name: "tmdb kept",
			want: []RemoteImage{
				{URL: "https://image.openmoviedb.com/poster.jpg", Type: ImagePrimary},
				{URL: "https://image.tmdb.org/t/p/original/backdrop.jpg", Type: ImageBackdrop},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewImageProvider(fake, Options{APIKey: testKey, IgnoreTMDbImages: tt.ignoreTMDb})

			images, err := p.Images(context.Background(), ItemRef{
				Kind:        ItemMovie,
				ProviderIDs: map[string]string{ProviderPoiskKino: "301"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, images)
		})
	}
}

func TestImageProvider_SearchFallback(t *testing.T) {
	fake := newFakeLookuper()
	fake.searches["Матрица"] = okResult(matrixSearch())
	fake.movies[301] = okResult(matrixMovie())

	p := NewImageProvider(fake, Options{APIKey: testKey})

	images, err := p.Images(context.Background(), ItemRef{Kind: ItemMovie, Name: "Матрица", Year: 1999})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://image.openmoviedb.com/poster.jpg", images[0].URL)
	assert.Equal(t, []string{"search:Матрица", "movie"}, fake.Calls())
}

func TestImageProvider_SearchHitImagesWhenDetailMissing(t *testing.T) {
	fake := newFakeLookuper()
	fake.searches["Матрица"] = okResult(matrixSearch())

	p := NewImageProvider(fake, Options{APIKey: testKey})

	images, err := p.Images(context.Background(), ItemRef{Kind: ItemMovie, Name: "Матрица", Year: 1999})
	require.NoError(t, err)
	assert.Equal(t, []RemoteImage{{URL: "https://image.tmdb.org/poster.jpg", Type: ImagePrimary}}, images)
}

func TestImageProvider_SeasonsAreNotSearched(t *testing.T) {
	fake := newFakeLookuper()

	p := NewImageProvider(fake, Options{APIKey: testKey})

	images, err := p.Images(context.Background(), ItemRef{Kind: ItemSeason, Name: "Сезон 1"})
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Empty(t, fake.Calls())
}

func TestImageProvider_Unavailable(t *testing.T) {
	fake := newFakeLookuper()
	fake.searches["Матрица"] = failedResult[models.SearchResponse](client.OutcomeUnconfigured)

	p := NewImageProvider(fake, Options{APIKey: testKey})

	_, err := p.Images(context.Background(), ItemRef{Kind: ItemMovie, Name: "Матрица"})
	assert.ErrorIs(t, err, client.ErrUnconfigured)
}

func TestBestMatch(t *testing.T) {
	docs := []models.Item{
		{ID: 1, Name: "Дюна", Year: intPtr(1984), IsSeries: boolPtr(false)},
		{ID: 2, Name: "Дюна: Часть вторая", Year: intPtr(2021), IsSeries: boolPtr(false)},
		{ID: 3, Name: "Дюна", Year: intPtr(2021), IsSeries: boolPtr(false)},
		{ID: 4, Name: "Дюна", Year: intPtr(2021), IsSeries: boolPtr(true)},
	}

	tests := []struct {
		name   string
		ref    ItemRef
		wantID int
		wantOK bool
	}{
		{"year and title", ItemRef{Kind: ItemMovie, Name: "дюна", Year: 2021}, 3, true},
		{"title only", ItemRef{Kind: ItemMovie, Name: "Дюна", Year: 1990}, 1, true},
		{"year beats title", ItemRef{Kind: ItemMovie, Name: "Dune", Year: 2021}, 2, true},
		{"series kind", ItemRef{Kind: ItemSeries, Name: "Дюна"}, 4, true},
		{"no candidates", ItemRef{Kind: ItemSeries, Name: "x"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := docs
			if !tt.wantOK {
				input = docs[:3]
			}
			got, ok := bestMatch(input, tt.ref)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("bestMatch() = (%d, %v), want (%d, %v)", got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
