package ui

import (
	"fmt"
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track    models.Track
	favorite bool
}

func (i trackItem) FilterValue() string { return i.track.Name + " " + i.track.ArtistNames() }

func (i trackItem) Title() string {
	if i.favorite {
		return "★ " + i.track.Name
	}
	return i.track.Name
}

func (i trackItem) Description() string {
	parts := []string{i.track.ArtistNames()}
	if i.track.Album.Name != "" {
		album := i.track.Album.Name
		if year, ok := i.track.Album.Year(); ok {
			album = fmt.Sprintf("%s (%d)", album, year)
		}
		parts = append(parts, album)
	}
	if i.track.Popularity != nil {
		parts = append(parts, fmt.Sprintf("pop %d", *i.track.Popularity))
	}
	if i.track.Source != "" {
		parts = append(parts, i.track.Source)
	}
	return strings.Join(parts, " • ")
}

// trackItems builds list items, marking tracks found in favorites.
func trackItems(tracks []models.Track, favorites []models.Track) []list.Item {
	fav := make(map[string]bool, len(favorites))
	for _, t := range favorites {
		fav[t.ID] = true
	}

	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, favorite: fav[t.ID]}
	}
	return items
}
