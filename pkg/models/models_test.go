package models

import (
	"encoding/json"
	"testing"
)

func TestSeasonEpisode(t *testing.T) {
	s := &Season{Episodes: []Episode{{Number: 1, Name: "one"}, {Number: 2, Name: "two"}}}

	tests := []struct {
		number int
		want   string
		found  bool
	}{
		{1, "one", true},
		{2, "two", true},
		{3, "", false},
	}

	for _, tt := range tests {
		ep, ok := s.Episode(tt.number)
		if ok != tt.found {
			t.Errorf("Episode(%d) found = %v, want %v", tt.number, ok, tt.found)
			continue
		}
		if ok && ep.Name != tt.want {
			t.Errorf("Episode(%d) = %q, want %q", tt.number, ep.Name, tt.want)
		}
	}

	ep, _ := s.Episode(1)
	ep.Name = "changed"
	if s.Episodes[0].Name != "one" {
		t.Error("Episode() returned a reference into the season")
	}

	var nilSeason *Season
	if _, ok := nilSeason.Episode(1); ok {
		t.Error("Episode() on nil season reported a match")
	}
}

func TestSeasonResponseFirst(t *testing.T) {
	var resp SeasonResponse
	if err := json.Unmarshal([]byte(`{"docs":[{"movieId":7,"number":2},{"movieId":7,"number":3}]}`), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	s, ok := resp.First()
	if !ok || s.Number != 2 {
		t.Errorf("First() = %+v, %v, want season 2", s, ok)
	}

	empty := &SeasonResponse{}
	if _, ok := empty.First(); ok {
		t.Error("First() on empty docs reported a record")
	}
}

func TestClone(t *testing.T) {
	m := &Movie{Genres: []Name{{Name: "драма"}}}
	c := m.Clone()
	c.Genres[0].Name = "комедия"
	if m.Genres[0].Name != "драма" {
		t.Error("Movie.Clone() shares the genre slice")
	}

	r := &SearchResponse{Docs: []Item{{ID: 1}}}
	rc := r.Clone()
	rc.Docs[0].ID = 2
	if r.Docs[0].ID != 1 {
		t.Error("SearchResponse.Clone() shares the docs slice")
	}

	if (*Movie)(nil).Clone() != nil || (*Season)(nil).Clone() != nil || (*SearchResponse)(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestItemHelpers(t *testing.T) {
	yes := true
	i := Item{Name: "", EnName: "The Matrix", IsSeries: &yes}
	if !i.Series() {
		t.Error("Series() = false, want true")
	}
	if got := i.DisplayName(); got != "The Matrix" {
		t.Errorf("DisplayName() = %q, want %q", got, "The Matrix")
	}
	if (Item{}).Series() {
		t.Error("Series() without flag = true, want false")
	}
}

func TestDecodeCaseInsensitive(t *testing.T) {
	var m Movie
	if err := json.Unmarshal([]byte(`{"ID":301,"EnName":"The Matrix"}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.ID != 301 || m.EnName != "The Matrix" {
		t.Errorf("Unmarshal() = %+v, want id 301 and enName", m)
	}
}
