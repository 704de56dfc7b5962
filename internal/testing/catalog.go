package testing

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// MockService is an in-memory [services.Service].
//
// Errors are looked up by "Method:key" first (key being the artist, genre or playlist ID),
// then by "Method". Delays use the same keys and respect context cancellation.
type MockService struct {
	mu sync.Mutex

	TopTracks     map[string][]models.Track // by artist ID
	GenreTracks   map[string][]models.Track // by genre
	Artists       map[string]models.Artist
	Features      map[string]models.AudioFeature
	UserTop       []models.Track
	UserArtists   []models.Artist
	Recent        []models.Track
	Saved         []models.Track
	Playlists     []models.Playlist
	PlaylistItems map[string][]models.Track
	User          *models.User

	Errors map[string]error
	Delays map[string]time.Duration

	Calls   map[string]int
	Batches map[string][][]string // ids passed to each batch call
	Created []CreatedPlaylist
}

// CreatedPlaylist records a CreatePlaylistWithTracks call.
type CreatedPlaylist struct {
	Name        string
	Description string
	URIs        []string
}

// NewMockService returns an empty catalog.
func NewMockService() *MockService {
	return &MockService{
		TopTracks:     map[string][]models.Track{},
		GenreTracks:   map[string][]models.Track{},
		Artists:       map[string]models.Artist{},
		Features:      map[string]models.AudioFeature{},
		PlaylistItems: map[string][]models.Track{},
		Errors:        map[string]error{},
		Delays:        map[string]time.Duration{},
		Calls:         map[string]int{},
		Batches:       map[string][][]string{},
	}
}

func (m *MockService) Name() string { return "mock" }

// CallCount returns how often method was invoked.
func (m *MockService) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockService) enter(ctx context.Context, method, key string) error {
	m.mu.Lock()
	m.Calls[method]++
	delay := m.Delays[method+":"+key]
	err, ok := m.Errors[method+":"+key]
	if !ok {
		err = m.Errors[method]
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (m *MockService) TopTracksForArtist(ctx context.Context, artistID string) ([]models.Track, error) {
	if err := m.enter(ctx, "TopTracksForArtist", artistID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return tagged(m.TopTracks[artistID], models.SourceArtist), nil
}

func (m *MockService) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	if err := m.enter(ctx, "SearchTracksByGenre", genre); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tracks := tagged(m.GenreTracks[genre], models.SourceGenre)
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (m *MockService) BatchArtistDetails(ctx context.Context, artistIDs []string) ([]models.Artist, error) {
	if err := m.enter(ctx, "BatchArtistDetails", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches["BatchArtistDetails"] = append(m.Batches["BatchArtistDetails"], slices.Clone(artistIDs))

	out := []models.Artist{}
	for _, id := range artistIDs {
		if a, ok := m.Artists[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockService) BatchAudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeature, error) {
	if err := m.enter(ctx, "BatchAudioFeatures", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches["BatchAudioFeatures"] = append(m.Batches["BatchAudioFeatures"], slices.Clone(trackIDs))

	out := []models.AudioFeature{}
	for _, id := range trackIDs {
		if f, ok := m.Features[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *MockService) CreatePlaylistWithTracks(ctx context.Context, name, description string, trackURIs []string) (*models.Playlist, error) {
	if err := m.enter(ctx, "CreatePlaylistWithTracks", name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Created = append(m.Created, CreatedPlaylist{Name: name, Description: description, URIs: slices.Clone(trackURIs)})
	id := fmt.Sprintf("mock-playlist-%d", len(m.Created))
	return &models.Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		URI:         "spotify:playlist:" + id,
		TrackCount:  len(trackURIs),
	}, nil
}

func (m *MockService) UserProfile(ctx context.Context) (*models.User, error) {
	if err := m.enter(ctx, "UserProfile", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.User == nil {
		return &models.User{ID: "mock-user", DisplayName: "Mock User"}, nil
	}
	u := *m.User
	return &u, nil
}

func (m *MockService) UserTopTracks(ctx context.Context, timeRange string, limit int) ([]models.Track, error) {
	if err := m.enter(ctx, "UserTopTracks", timeRange); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return limited(tagged(m.UserTop, models.SourceTop), limit), nil
}

func (m *MockService) UserTopArtists(ctx context.Context, timeRange string, limit int) ([]models.Artist, error) {
	if err := m.enter(ctx, "UserTopArtists", timeRange); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return limited(slices.Clone(m.UserArtists), limit), nil
}

func (m *MockService) RecentlyPlayed(ctx context.Context, limit int) ([]models.Track, error) {
	if err := m.enter(ctx, "RecentlyPlayed", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return limited(tagged(m.Recent, models.SourceRecent), limit), nil
}

func (m *MockService) SavedTracks(ctx context.Context, limit int) ([]models.Track, error) {
	if err := m.enter(ctx, "SavedTracks", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return limited(tagged(m.Saved, models.SourceSaved), limit), nil
}

func (m *MockService) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := m.enter(ctx, "UserPlaylists", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Playlists), nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := m.enter(ctx, "PlaylistTracks", playlistID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return tagged(m.PlaylistItems[playlistID], models.SourcePlaylist), nil
}

func (m *MockService) SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	if err := m.enter(ctx, "SearchArtists", query); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Artist
	for _, a := range m.Artists {
		if a.Name == query || a.ID == query {
			out = append(out, a)
		}
	}
	return limited(out, limit), nil
}

func (m *MockService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if err := m.enter(ctx, "SearchTracks", query); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Track
	for _, tracks := range m.TopTracks {
		for _, t := range tracks {
			if t.Name == query || t.ID == query {
				out = append(out, t.WithSource(models.SourceSearch))
			}
		}
	}
	return limited(out, limit), nil
}

func tagged(tracks []models.Track, source string) []models.Track {
	out := make([]models.Track, len(tracks))
	for i, t := range tracks {
		out[i] = t.WithSource(source)
	}
	return out
}

func limited[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
