package services

import (
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// Spotify Web API response shapes, see https://developer.spotify.com/documentation/web-api/reference/
// Only the fields the mixer reads are decoded.

type spotifyImage struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

type spotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Images     []spotifyImage `json:"images"`
	Popularity *int           `json:"popularity"`
	URI        string         `json:"uri"`
}

type spotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity *int            `json:"popularity"`
	URI        string          `json:"uri"`
	IsLocal    bool            `json:"is_local"`
	Type       string          `json:"type"`
}

// spotifyTrackItem wraps tracks in playlist, saved and recently played listings.
// Track is null for removed or unavailable items.
type spotifyTrackItem struct {
	Track *spotifyTrack `json:"track"`
}

type spotifyAudioFeatures struct {
	ID           string  `json:"id"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
}

type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}

type spotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      *bool  `json:"public"`
	URI         string `json:"uri"`
	Owner       struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// spotifyError is the error envelope. Regular endpoints nest an object under "error";
// the accounts service returns a string code plus error_description.
type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

type spotifyAuthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func toImages(in []spotifyImage) []models.Image {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		if img.URL == "" {
			continue
		}
		m := models.Image{URL: img.URL}
		if img.Height != nil {
			m.Height = *img.Height
		}
		if img.Width != nil {
			m.Width = *img.Width
		}
		out = append(out, m)
	}
	return out
}

func (a spotifyArtist) toModel() models.Artist {
	return models.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Images:     toImages(a.Images),
		Genres:     a.Genres,
		Popularity: a.Popularity,
	}
}

func (t spotifyTrack) toModel(source string) models.Track {
	artists := make([]models.Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.toModel())
	}

	return models.Track{
		ID:      t.ID,
		Name:    t.Name,
		Artists: artists,
		Album: models.Album{
			ID:          t.Album.ID,
			Name:        t.Album.Name,
			ReleaseDate: t.Album.ReleaseDate,
			Images:      toImages(t.Album.Images),
		},
		DurationMS: t.DurationMS,
		Popularity: t.Popularity,
		URI:        t.URI,
		Source:     source,
	}
}

// playable reports whether the item is a catalog track with an identity.
// Local files and podcast episodes show up in listings without one.
func (t *spotifyTrack) playable() bool {
	if t == nil || t.ID == "" || t.IsLocal {
		return false
	}
	return t.Type == "" || strings.EqualFold(t.Type, "track")
}

func mapTracks(in []*spotifyTrack, source string) []models.Track {
	out := make([]models.Track, 0, len(in))
	for _, t := range in {
		if !t.playable() {
			continue
		}
		out = append(out, t.toModel(source))
	}
	return out
}

func mapTrackItems(in []spotifyTrackItem, source string) []models.Track {
	tracks := make([]*spotifyTrack, 0, len(in))
	for _, item := range in {
		tracks = append(tracks, item.Track)
	}
	return mapTracks(tracks, source)
}

func mapArtists(in []*spotifyArtist) []models.Artist {
	out := make([]models.Artist, 0, len(in))
	for _, a := range in {
		if a == nil || a.ID == "" {
			continue
		}
		out = append(out, a.toModel())
	}
	return out
}

func (u spotifyUser) toModel() *models.User {
	return &models.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Country:     u.Country,
		Product:     u.Product,
	}
}

func (p spotifyPlaylist) toModel() models.Playlist {
	owner := p.Owner.DisplayName
	if owner == "" {
		owner = p.Owner.ID
	}

	return models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public != nil && *p.Public,
		URI:         p.URI,
		Owner:       owner,
		TrackCount:  p.Tracks.Total,
	}
}
