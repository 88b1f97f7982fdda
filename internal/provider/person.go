package provider

import "strings"

// PersonKind is the role a person played in a production.
type PersonKind string

const (
	PersonActor    PersonKind = "Actor"
	PersonDirector PersonKind = "Director"
	PersonProducer PersonKind = "Producer"
	PersonWriter   PersonKind = "Writer"
	PersonComposer PersonKind = "Composer"
)

// professionKeywords is checked in order; the first match wins.
var professionKeywords = []struct {
	kind     PersonKind
	keywords []string
}{
	{PersonDirector, []string{"режиссер", "режиссёр", "director"}},
	{PersonActor, []string{"актер", "актёр", "актриса", "actor", "actress"}},
	{PersonProducer, []string{"продюсер", "producer"}},
	{PersonWriter, []string{"сценарист", "writer", "screenplay"}},
	{PersonComposer, []string{"композитор", "composer"}},
}

// ClassifyProfession maps a PoiskKino profession (Russian or English) to a
// PersonKind. Unknown or empty professions count as actors.
func ClassifyProfession(profession string) PersonKind {
	p := strings.ToLower(profession)
	if p == "" {
		return PersonActor
	}
	for _, entry := range professionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(p, kw) {
				return entry.kind
			}
		}
	}
	return PersonActor
}
