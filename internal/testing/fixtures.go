package testing

import (
	"fmt"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// TrackOption customizes a fixture track.
type TrackOption func(*models.Track)

// NewTrack builds a track with a single artist "artist-<id>" and no release date or popularity.
func NewTrack(id string, opts ...TrackOption) models.Track {
	t := models.Track{
		ID:         id,
		Name:       "Track " + id,
		Artists:    []models.Artist{{ID: "artist-" + id, Name: "Artist " + id}},
		DurationMS: 180000,
		URI:        "spotify:track:" + id,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func WithName(name string) TrackOption {
	return func(t *models.Track) { t.Name = name }
}

// WithArtists replaces the artist list. Each artist is given as an ID; names are derived.
func WithArtists(ids ...string) TrackOption {
	return func(t *models.Track) {
		t.Artists = make([]models.Artist, 0, len(ids))
		for _, id := range ids {
			t.Artists = append(t.Artists, models.Artist{ID: id, Name: "Name " + id})
		}
	}
}

func WithRelease(date string) TrackOption {
	return func(t *models.Track) { t.Album.ReleaseDate = date }
}

func WithPopularity(p int) TrackOption {
	return func(t *models.Track) { t.Popularity = models.IntPtr(p) }
}

func WithSource(source string) TrackOption {
	return func(t *models.Track) { t.Source = source }
}

// Tracks builds n fixture tracks with IDs "<prefix>-<i>".
func Tracks(prefix string, n int, opts ...TrackOption) []models.Track {
	out := make([]models.Track, 0, n)
	for i := range n {
		out = append(out, NewTrack(fmt.Sprintf("%s-%d", prefix, i), opts...))
	}
	return out
}

// NewArtist builds an artist with the given genres.
func NewArtist(id string, genres ...string) models.Artist {
	return models.Artist{
		ID:     id,
		Name:   "Name " + id,
		Genres: genres,
		Images: []models.Image{{URL: "https://img.example/" + id}},
	}
}
