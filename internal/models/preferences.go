package models

import (
	"strconv"
	"strings"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Mood holds the slider values a user picked. The mixer does not filter on it.
type Mood struct {
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Danceability float64 `json:"danceability"`
}

// Preferences describes what to mix. Decades are 4-digit start years ("1980").
type Preferences struct {
	Artists    []Artist `json:"artists,omitempty"`
	Tracks     []Track  `json:"tracks,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Decades    []string `json:"decades,omitempty"`
	Popularity *Range   `json:"popularity,omitempty"`
	Mood       *Mood    `json:"mood,omitempty"`
	Favorites  []Track  `json:"favorites,omitempty"`
}

// HasSources reports whether any candidate source is selected.
func (p Preferences) HasSources() bool {
	return len(p.Artists)+len(p.Tracks)+len(p.Genres)+len(p.Favorites) > 0
}

// NormalizeDecade converts a display label like "1980s" to its start year "1980".
// Labels that are already start years pass through unchanged.
func NormalizeDecade(label string) string {
	s := strings.TrimSpace(label)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "s"), "'")
	return s
}

// DecadeStart parses a start-year label. ok is false when the label is not a number.
func DecadeStart(label string) (start int, ok bool) {
	v, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return 0, false
	}
	return v, true
}
