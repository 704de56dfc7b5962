// package models defines the data model for the taste mixer
package models

import (
	"strconv"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}

// Image is a cover or profile image reference.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// Artist is a catalog artist. Popularity is nil when the catalog did not report one.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Images     []Image  `json:"images,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Popularity *int     `json:"popularity,omitempty"`
}

// ImageURL returns the first (largest) image or an empty string.
func (a Artist) ImageURL() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}

// Album holds the release date exactly as the catalog reported it ("1987", "1987-03" or "1987-03-01").
type Album struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Images      []Image `json:"images,omitempty"`
}

// Year extracts the release year. ok is false for missing or malformed dates.
func (a Album) Year() (year int, ok bool) {
	s := strings.TrimSpace(a.ReleaseDate)
	if len(s) < 4 {
		return 0, false
	}
	if len(s) > 4 && s[4] != '-' {
		return 0, false
	}

	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return 0, false
	}
	return y, true
}

// Provenance tags carried in [Track.Source].
const (
	SourceSelected = "selected"
	SourceFavorite = "favorite"
	SourceArtist   = "artist"
	SourceGenre    = "genre"
	SourceTop      = "top"
	SourceRecent   = "recent"
	SourceSaved    = "saved"
	SourcePlaylist = "playlist"
	SourceSearch   = "search"
)

// Track is a catalog track. The ID is the only identity; everything else is descriptive.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Popularity *int     `json:"popularity,omitempty"`
	URI        string   `json:"uri,omitempty"`
	Source     string   `json:"source,omitempty"` // provenance: top, recent, saved, favorite, artist, genre, selected
}

// PrimaryArtist returns the first listed artist when it has an identifier.
func (t Track) PrimaryArtist() (Artist, bool) {
	if len(t.Artists) == 0 || t.Artists[0].ID == "" {
		return Artist{}, false
	}
	return t.Artists[0], true
}

// ArtistNames joins every artist name with a comma.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// TrackURI returns the playable URI, deriving it from the ID when the catalog omitted it.
func (t Track) TrackURI() string {
	if t.URI != "" {
		return t.URI
	}
	if t.ID == "" {
		return ""
	}
	return "spotify:track:" + t.ID
}

// WithSource returns a copy of t tagged with source.
func (t Track) WithSource(source string) Track {
	t.Source = source
	return t
}

// AudioFeature holds the per-track descriptors used for mood classification, each in [0,1].
type AudioFeature struct {
	ID           string  `json:"id"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
}

// Playlist is a provider playlist, as listed or as created by a save.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
	URI         string `json:"uri,omitempty"`
	Owner       string `json:"owner,omitempty"`
	TrackCount  int    `json:"track_count"`
}

// User is the signed-in provider account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
}

// IntPtr returns a pointer to v, for optional scores in literals.
func IntPtr(v int) *int {
	return &v
}
