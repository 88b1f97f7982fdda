package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/models"
)

func gotSeason() *models.Season {
	return &models.Season{
		MovieID:     464963,
		Number:      1,
		Name:        "Сезон 1",
		Description: "Первый сезон",
		AirDate:     "2011-04-17T00:00:00.000Z",
		Poster:      &models.Image{URL: "https://image.tmdb.org/season1.jpg"},
		Episodes: []models.Episode{
			{Number: 1, Name: "Зима близко", AirDate: "2011-04-17T00:00:00.000Z", Still: &models.Image{URL: "https://image.openmoviedb.com/still1.jpg"}},
			{Number: 2, EnName: "The Kingsroad", EnDescription: "Bran's fate", AirDate: "2011-04-24"},
			{Number: 3},
		},
	}
}

func TestSeasonProvider_Metadata(t *testing.T) {
	fake := newFakeLookuper()
	fake.seasons[[2]int{464963, 1}] = okResult(gotSeason())

	p := NewSeasonProvider(fake, Options{APIKey: testKey, IgnoreTMDbImages: true})

	md, err := p.Metadata(context.Background(), 464963, 1)
	require.NoError(t, err)
	assert.True(t, md.HasMetadata)
	assert.Equal(t, "Сезон 1", md.Name)
	assert.Equal(t, "Первый сезон", md.Overview)
	assert.Empty(t, md.ImageURL)
	require.NotNil(t, md.PremiereDate)
	assert.Equal(t, time.Date(2011, 4, 17, 0, 0, 0, 0, time.UTC), *md.PremiereDate)
}

func TestSeasonProvider_NotFound(t *testing.T) {
	fake := newFakeLookuper()

	p := NewSeasonProvider(fake, Options{APIKey: testKey})

	md, err := p.Metadata(context.Background(), 464963, 9)
	require.NoError(t, err)
	assert.False(t, md.HasMetadata)
}

func TestEpisodeProvider_Metadata(t *testing.T) {
	fake := newFakeLookuper()
	fake.seasons[[2]int{464963, 1}] = okResult(gotSeason())

	p := NewEpisodeProvider(fake, Options{APIKey: testKey, IgnoreTMDbImages: true})
	ctx := context.Background()

	tests := []struct {
		name     string
		episode  int
		wantName string
		wantOver string
		wantImg  string
		wantDate *time.Time
	}{
		{
			name:     "localized",
			episode:  1,
			wantName: "Зима близко",
			wantImg:  "https://image.openmoviedb.com/still1.jpg",
			wantDate: timePtr(time.Date(2011, 4, 17, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:     "english fallback",
			episode:  2,
			wantName: "The Kingsroad",
			wantOver: "Bran's fate",
			wantDate: timePtr(time.Date(2011, 4, 24, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:     "numbered fallback",
			episode:  3,
			wantName: "Episode 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := p.Metadata(ctx, 464963, 1, tt.episode)
			require.NoError(t, err)
			assert.True(t, md.HasMetadata)
			assert.Equal(t, tt.wantName, md.Name)
			assert.Equal(t, tt.wantOver, md.Overview)
			assert.Equal(t, tt.wantImg, md.ImageURL)
			assert.Equal(t, tt.episode, md.Number)
			assert.Equal(t, 1, md.SeasonNumber)
			assert.Equal(t, tt.wantDate, md.PremiereDate)
		})
	}
}

func TestEpisodeProvider_MissingEpisode(t *testing.T) {
	fake := newFakeLookuper()
	fake.seasons[[2]int{464963, 1}] = okResult(gotSeason())

	p := NewEpisodeProvider(fake, Options{APIKey: testKey})

	md, err := p.Metadata(context.Background(), 464963, 1, 42)
	require.NoError(t, err)
	assert.False(t, md.HasMetadata)
}

func TestEpisodeProvider_UnknownSeries(t *testing.T) {
	fake := newFakeLookuper()

	p := NewEpisodeProvider(fake, Options{APIKey: testKey})

	md, err := p.Metadata(context.Background(), 0, 1, 1)
	require.NoError(t, err)
	assert.False(t, md.HasMetadata)
	assert.Empty(t, fake.Calls())
}

func TestEpisodeProvider_Unavailable(t *testing.T) {
	fake := newFakeLookuper()
	fake.seasons[[2]int{464963, 1}] = failedResult[models.Season](client.OutcomeTimedOut)

	p := NewEpisodeProvider(fake, Options{APIKey: testKey})

	_, err := p.Metadata(context.Background(), 464963, 1, 1)
	assert.True(t, errors.Is(err, client.ErrTimedOut))
}

func TestParseAirDate(t *testing.T) {
	assert.Nil(t, parseAirDate(""))
	assert.Nil(t, parseAirDate("not a date"))
	assert.NotNil(t, parseAirDate("2011-04-17"))
	assert.NotNil(t, parseAirDate("2011-04-17T00:00:00.000Z"))
}

func timePtr(t time.Time) *time.Time { return &t }
