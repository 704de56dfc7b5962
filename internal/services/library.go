package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
)

// UserTopTracks returns the user's most played tracks over timeRange.
func (s *SpotifyService) UserTopTracks(ctx context.Context, timeRangeName string, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?time_range=%s&limit=%d", timeRange(timeRangeName), pageSize(limit))

	var response struct {
		Items []*spotifyTrack `json:"items"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return mapTracks(response.Items, models.SourceTop), nil
}

// UserTopArtists returns the user's most played artists over timeRange.
func (s *SpotifyService) UserTopArtists(ctx context.Context, timeRangeName string, limit int) ([]models.Artist, error) {
	endpoint := fmt.Sprintf("/me/top/artists?time_range=%s&limit=%d", timeRange(timeRangeName), pageSize(limit))

	var response struct {
		Items []*spotifyArtist `json:"items"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return mapArtists(response.Items), nil
}

// RecentlyPlayed returns the user's latest plays, newest first. A track played twice appears twice.
func (s *SpotifyService) RecentlyPlayed(ctx context.Context, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", pageSize(limit))

	var response struct {
		Items []spotifyTrackItem `json:"items"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return mapTrackItems(response.Items, models.SourceRecent), nil
}

// SavedTracks returns the user's liked songs. A limit <= 0 walks every page.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit int) ([]models.Track, error) {
	if limit <= 0 {
		items, err := fetchAllAs[spotifyTrackItem](ctx, s, fmt.Sprintf("/me/tracks?limit=%d", maxPageSize), "items")
		if err != nil {
			return nil, err
		}
		return mapTrackItems(items, models.SourceSaved), nil
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d", pageSize(limit))

	var response struct {
		Items []spotifyTrackItem `json:"items"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return mapTrackItems(response.Items, models.SourceSaved), nil
}

// UserPlaylists returns every playlist the user owns or follows.
func (s *SpotifyService) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	items, err := fetchAllAs[*spotifyPlaylist](ctx, s, fmt.Sprintf("/me/playlists?limit=%d", maxPageSize), "items")
	if err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(items))
	for _, p := range items {
		if p == nil || p.ID == "" {
			continue
		}
		playlists = append(playlists, p.toModel())
	}
	return playlists, nil
}

// PlaylistTracks returns every track of a playlist in playlist order.
// Removed, local and episode entries are skipped.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is empty", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=100", url.PathEscape(playlistID))
	items, err := fetchAllAs[spotifyTrackItem](ctx, s, endpoint, "items")
	if err != nil {
		if code, ok := shared.StatusCode(err); ok && code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}
	return mapTrackItems(items, models.SourcePlaylist), nil
}
