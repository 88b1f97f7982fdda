package cache

import (
	"strconv"
	"strings"
)

// Kind is the lookup kind a cache key belongs to.
type Kind string

const (
	KindSearch Kind = "search"
	KindMovie  Kind = "movie"
	KindSeason Kind = "season"
)

// Key is a deterministic cache key. Keys of different kinds never collide
// because the kind is always the first segment.
type Key string

// Kind returns the kind prefix of the key.
func (k Key) Kind() Kind {
	kind, _, _ := strings.Cut(string(k), ":")
	return Kind(kind)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}

// NormalizeTitle trims and lower-cases a search title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// SearchKey builds the key for a title search. A year of 0 means no year filter.
//
// Format: search:<normalized title>[:<year>]
func SearchKey(title string, year int) Key {
	parts := []string{string(KindSearch), NormalizeTitle(title)}
	if year > 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	return Key(strings.Join(parts, ":"))
}

// MovieKey builds the key for an item-by-id lookup.
//
// Format: movie:<id>
func MovieKey(id int) Key {
	return Key(string(KindMovie) + ":" + strconv.Itoa(id))
}

// SeasonKey builds the key for a season lookup.
//
// Format: season:<parent id>:<season number>
func SeasonKey(parentID, seasonNumber int) Key {
	return Key(strings.Join([]string{
		string(KindSeason),
		strconv.Itoa(parentID),
		strconv.Itoa(seasonNumber),
	}, ":"))
}
