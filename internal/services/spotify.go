// Spotify Web API implementation of [Service]
//
// Every request goes through [SpotifyService.doRequest], which obtains a credential first,
// waits on the rate limiter and maps non-2xx responses to [shared.APIError].
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://api.spotify.com/v1"
	DefaultMarket      = "US"
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second

	defaultPageSize  = 20
	maxPageSize      = 50
	artistBatchSize  = 50
	featureBatchSize = 100
	addTracksBatch   = 100
	maxErrorBody     = 64 << 10
)

// Time ranges accepted by the top items endpoints.
const (
	ShortTerm  = "short_term"
	MediumTerm = "medium_term"
	LongTerm   = "long_term"
)

// SpotifyOpts configures a [SpotifyService]. Zero values fall back to the defaults above.
type SpotifyOpts struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials CredentialProvider
	Market      string
	RateLimit   float64 // requests per second, 0 disables limiting
	Burst       int
	Concurrency int // max in-flight batch requests
	Logger      *log.Logger
}

// SpotifyService implements [Service] against the Spotify Web API.
type SpotifyService struct {
	baseURL     string
	httpClient  *http.Client
	creds       CredentialProvider
	market      string
	limiter     *rate.Limiter
	concurrency int
	logger      *log.Logger
}

// NewSpotifyService creates a catalog client. Credentials are required.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Credentials == nil {
		return nil, fmt.Errorf("%w: credential provider is required", shared.ErrMissingCredentials)
	}

	s := &SpotifyService{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		creds:       opts.Credentials,
		market:      opts.Market,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}

	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if s.market == "" {
		s.market = DefaultMarket
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Market returns the market used for market-scoped endpoints.
func (s *SpotifyService) Market() string {
	return s.market
}

// resolve turns a relative endpoint into a full URL. Absolute URLs, such as the
// "next" links of paginated responses, are used as is.
func (s *SpotifyService) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "https://") || strings.HasPrefix(endpoint, "http://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return s.baseURL + endpoint
}

// doRequest performs an authenticated request and decodes a JSON response into result.
// A nil result discards the body.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	token, err := s.creds.ValidCredential(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
	}
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.resolve(endpoint), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("spotify request", "method", method, "url", req.URL.Path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseAPIError builds an [shared.APIError] from the provider's error body,
// falling back to a generic status message.
func parseAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr spotifyError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return shared.NewAPIError(resp.StatusCode, apiErr.Error.Message)
	}

	var authErr spotifyAuthError
	if err := json.Unmarshal(data, &authErr); err == nil && authErr.Error != "" {
		msg := authErr.Error
		if authErr.Description != "" {
			msg += ": " + authErr.Description
		}
		return shared.NewAPIError(resp.StatusCode, msg)
	}

	return shared.NewAPIError(resp.StatusCode, "")
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*models.User, error) {
	var user spotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return user.toModel(), nil
}

// TopTracksForArtist returns the artist's top tracks in the service market.
func (s *SpotifyService) TopTracksForArtist(ctx context.Context, artistID string) ([]models.Track, error) {
	if strings.TrimSpace(artistID) == "" {
		return nil, fmt.Errorf("%w: artist id is empty", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", url.PathEscape(artistID), url.QueryEscape(s.market))

	var response struct {
		Tracks []*spotifyTrack `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return mapTracks(response.Tracks, models.SourceArtist), nil
}

// SearchTracksByGenre runs a genre-filtered track search and returns the first page.
func (s *SpotifyService) SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, fmt.Errorf("%w: genre is empty", shared.ErrInvalidArgument)
	}

	tracks, err := s.searchTracks(ctx, fmt.Sprintf("genre:%q", genre), limit)
	if err != nil {
		return nil, err
	}
	for i := range tracks {
		tracks[i].Source = models.SourceGenre
	}
	return tracks, nil
}

// SearchTracks runs a free-text track search.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidArgument)
	}
	return s.searchTracks(ctx, query, limit)
}

func (s *SpotifyService) searchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(pageSize(limit)))

	var response struct {
		Tracks struct {
			Items []*spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}
	return mapTracks(response.Tracks.Items, models.SourceSearch), nil
}

// SearchArtists runs a free-text artist search.
func (s *SpotifyService) SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidArgument)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "artist")
	params.Set("limit", strconv.Itoa(pageSize(limit)))

	var response struct {
		Artists struct {
			Items []*spotifyArtist `json:"items"`
		} `json:"artists"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &response); err != nil {
		return nil, err
	}
	return mapArtists(response.Artists.Items), nil
}

// BatchArtistDetails resolves artists in groups of 50, preserving input order.
// Unknown identifiers are dropped.
func (s *SpotifyService) BatchArtistDetails(ctx context.Context, artistIDs []string) ([]models.Artist, error) {
	ids := shared.Unique(artistIDs)
	if len(ids) == 0 {
		return []models.Artist{}, nil
	}

	return fetchChunks(ctx, s.concurrency, shared.Chunk(ids, artistBatchSize), func(ctx context.Context, chunk []string) ([]models.Artist, error) {
		var response struct {
			Artists []*spotifyArtist `json:"artists"`
		}
		endpoint := "/artists?ids=" + url.QueryEscape(strings.Join(chunk, ","))
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
			return nil, err
		}
		return mapArtists(response.Artists), nil
	})
}

// BatchAudioFeatures resolves audio features in groups of 100, preserving input order.
// Tracks the provider has no features for are omitted.
func (s *SpotifyService) BatchAudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeature, error) {
	ids := shared.Unique(trackIDs)
	if len(ids) == 0 {
		return []models.AudioFeature{}, nil
	}

	return fetchChunks(ctx, s.concurrency, shared.Chunk(ids, featureBatchSize), func(ctx context.Context, chunk []string) ([]models.AudioFeature, error) {
		var response struct {
			AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
		}
		endpoint := "/audio-features?ids=" + url.QueryEscape(strings.Join(chunk, ","))
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
			return nil, err
		}

		features := make([]models.AudioFeature, 0, len(response.AudioFeatures))
		for _, f := range response.AudioFeatures {
			if f == nil || f.ID == "" {
				continue
			}
			features = append(features, models.AudioFeature{
				ID:           f.ID,
				Energy:       f.Energy,
				Danceability: f.Danceability,
				Valence:      f.Valence,
			})
		}
		return features, nil
	})
}

// CreatePlaylistWithTracks creates a private playlist owned by the current user and
// adds trackURIs in order, 100 per request.
func (s *SpotifyService) CreatePlaylistWithTracks(ctx context.Context, name, description string, trackURIs []string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is empty", shared.ErrInvalidArgument)
	}

	user, err := s.UserProfile(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}

	var created spotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(user.ID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(trackURIs))
	for _, uri := range trackURIs {
		if uri = strings.TrimSpace(uri); uri != "" {
			uris = append(uris, uri)
		}
	}

	for i, chunk := range shared.Chunk(uris, addTracksBatch) {
		endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(created.ID))
		if err := s.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"uris": chunk}, nil); err != nil {
			return nil, fmt.Errorf("failed to add batch %d to playlist %s: %w", i+1, created.ID, err)
		}
	}

	playlist := created.toModel()
	playlist.Public = false
	playlist.TrackCount = len(uris)
	if playlist.Owner == "" {
		playlist.Owner = user.DisplayName
	}

	s.logger.Info("created playlist", "id", playlist.ID, "name", playlist.Name, "tracks", playlist.TrackCount)
	return &playlist, nil
}

// pageSize clamps limit to the provider's page bounds.
func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}

// timeRange normalises a top items time range, defaulting to medium term.
func timeRange(r string) string {
	switch strings.ToLower(strings.TrimSpace(r)) {
	case ShortTerm, "short", "4w":
		return ShortTerm
	case LongTerm, "long", "all":
		return LongTerm
	default:
		return MediumTerm
	}
}
