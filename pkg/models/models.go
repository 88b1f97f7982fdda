// Package models defines the PoiskKino API v1.4 payloads returned by the client.
//
// Decoded values are shared through the response cache. Treat them as read-only;
// use Clone when a caller needs to adapt fields.
package models

// Image is a poster, backdrop or episode still.
type Image struct {
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// ExternalID holds identifiers of the same title in other catalogs.
type ExternalID struct {
	IMDb string `json:"imdb,omitempty"`
	TMDb *int   `json:"tmdb,omitempty"`
	KpHD string `json:"kpHD,omitempty"`
}

// Rating holds per-source ratings.
type Rating struct {
	Kinopoisk          *float64 `json:"kinopoisk,omitempty"`
	IMDb               *float64 `json:"imdb,omitempty"`
	TMDb               *float64 `json:"tmdb,omitempty"`
	FilmCritics        *float64 `json:"filmCritics,omitempty"`
	RussianFilmCritics *float64 `json:"russianFilmCritics,omitempty"`
	Await              *float64 `json:"await,omitempty"`
}

// Votes holds per-source vote counts.
type Votes struct {
	Kp                 *int `json:"kp,omitempty"`
	IMDb               *int `json:"imdb,omitempty"`
	TMDb               *int `json:"tmdb,omitempty"`
	FilmCritics        *int `json:"filmCritics,omitempty"`
	RussianFilmCritics *int `json:"russianFilmCritics,omitempty"`
	Await              *int `json:"await,omitempty"`
}

// Name is a genre or country entry.
type Name struct {
	Name string `json:"name,omitempty"`
}

// Person is a cast or crew member.
type Person struct {
	ID           int    `json:"id"`
	Name         string `json:"name,omitempty"`
	EnName       string `json:"enName,omitempty"`
	Photo        string `json:"photo,omitempty"`
	Description  string `json:"description,omitempty"`
	Profession   string `json:"profession,omitempty"`
	EnProfession string `json:"enProfession,omitempty"`
}

// Video is a trailer link.
type Video struct {
	URL  string `json:"url,omitempty"`
	Site string `json:"site,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Videos groups trailer links.
type Videos struct {
	Trailers []Video `json:"trailers,omitempty"`
}

// SeasonInfo summarises a season of a series.
type SeasonInfo struct {
	Number        *int `json:"number,omitempty"`
	EpisodesCount *int `json:"episodesCount,omitempty"`
}

// Item is a single search hit.
type Item struct {
	ID                int         `json:"id"`
	Name              string      `json:"name,omitempty"`
	AlternativeName   string      `json:"alternativeName,omitempty"`
	EnName            string      `json:"enName,omitempty"`
	Type              string      `json:"type,omitempty"`
	Year              *int        `json:"year,omitempty"`
	Description       string      `json:"description,omitempty"`
	ShortDescription  string      `json:"shortDescription,omitempty"`
	MovieLength       *int        `json:"movieLength,omitempty"`
	ExternalID        *ExternalID `json:"externalId,omitempty"`
	Poster            *Image      `json:"poster,omitempty"`
	Backdrop          *Image      `json:"backdrop,omitempty"`
	Rating            *Rating     `json:"rating,omitempty"`
	Votes             *Votes      `json:"votes,omitempty"`
	Genres            []Name      `json:"genres,omitempty"`
	Countries         []Name      `json:"countries,omitempty"`
	IsSeries          *bool       `json:"isSeries,omitempty"`
	SeriesLength      *int        `json:"seriesLength,omitempty"`
	TotalSeriesLength *int        `json:"totalSeriesLength,omitempty"`
}

// Series reports whether the hit is flagged as a series.
func (i Item) Series() bool {
	return i.IsSeries != nil && *i.IsSeries
}

// DisplayName returns the localized name, falling back to the English one.
func (i Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.EnName
}

// SearchResponse is the paged result of /v1.4/movie/search.
type SearchResponse struct {
	Docs  []Item `json:"docs"`
	Total int    `json:"total"`
	Limit int    `json:"limit"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

// Clone returns a deep-enough copy for callers that reorder or trim hits.
func (r *SearchResponse) Clone() *SearchResponse {
	if r == nil {
		return nil
	}
	out := *r
	out.Docs = append([]Item(nil), r.Docs...)
	return &out
}

// Movie is the full item detail returned by /v1.4/movie/{id}. Series use the same shape.
type Movie struct {
	ID                int          `json:"id"`
	Name              string       `json:"name,omitempty"`
	EnName            string       `json:"enName,omitempty"`
	AlternativeName   string       `json:"alternativeName,omitempty"`
	Type              string       `json:"type,omitempty"`
	Year              *int         `json:"year,omitempty"`
	Description       string       `json:"description,omitempty"`
	ShortDescription  string       `json:"shortDescription,omitempty"`
	Slogan            string       `json:"slogan,omitempty"`
	Rating            *Rating      `json:"rating,omitempty"`
	Votes             *Votes       `json:"votes,omitempty"`
	ExternalID        *ExternalID  `json:"externalId,omitempty"`
	Poster            *Image       `json:"poster,omitempty"`
	Backdrop          *Image       `json:"backdrop,omitempty"`
	Genres            []Name       `json:"genres,omitempty"`
	Countries         []Name       `json:"countries,omitempty"`
	Persons           []Person     `json:"persons,omitempty"`
	Videos            *Videos      `json:"videos,omitempty"`
	SeasonsInfo       []SeasonInfo `json:"seasonsInfo,omitempty"`
	MovieLength       *int         `json:"movieLength,omitempty"`
	SeriesLength      *int         `json:"seriesLength,omitempty"`
	TotalSeriesLength *int         `json:"totalSeriesLength,omitempty"`
}

// Clone copies the slices a caller is likely to modify.
func (m *Movie) Clone() *Movie {
	if m == nil {
		return nil
	}
	out := *m
	out.Genres = append([]Name(nil), m.Genres...)
	out.Countries = append([]Name(nil), m.Countries...)
	out.Persons = append([]Person(nil), m.Persons...)
	out.SeasonsInfo = append([]SeasonInfo(nil), m.SeasonsInfo...)
	return &out
}

// Episode is a single episode inside a season record.
type Episode struct {
	Number        int    `json:"number"`
	Name          string `json:"name,omitempty"`
	EnName        string `json:"enName,omitempty"`
	AirDate       string `json:"airDate,omitempty"`
	Description   string `json:"description,omitempty"`
	EnDescription string `json:"enDescription,omitempty"`
	Still         *Image `json:"still,omitempty"`
}

// Season is a season record with its episodes.
type Season struct {
	MovieID       int       `json:"movieId"`
	Number        int       `json:"number"`
	EpisodesCount *int      `json:"episodesCount,omitempty"`
	Episodes      []Episode `json:"episodes,omitempty"`
	Poster        *Image    `json:"poster,omitempty"`
	Name          string    `json:"name,omitempty"`
	EnName        string    `json:"enName,omitempty"`
	Duration      *int      `json:"duration,omitempty"`
	Description   string    `json:"description,omitempty"`
	EnDescription string    `json:"enDescription,omitempty"`
	AirDate       string    `json:"airDate,omitempty"`
}

// Episode returns the episode with the given number.
func (s *Season) Episode(number int) (*Episode, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Episodes {
		if s.Episodes[i].Number == number {
			ep := s.Episodes[i]
			return &ep, true
		}
	}
	return nil, false
}

// Clone copies the episode list.
func (s *Season) Clone() *Season {
	if s == nil {
		return nil
	}
	out := *s
	out.Episodes = append([]Episode(nil), s.Episodes...)
	return &out
}

// SeasonResponse is the paged result of /v1.4/season.
type SeasonResponse struct {
	Docs  []Season `json:"docs"`
	Total int      `json:"total"`
	Limit int      `json:"limit"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
}

// First returns the first season record, if any.
func (r *SeasonResponse) First() (*Season, bool) {
	if r == nil || len(r.Docs) == 0 {
		return nil, false
	}
	s := r.Docs[0]
	return &s, true
}
