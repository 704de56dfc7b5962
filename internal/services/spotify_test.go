package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	tu "github.com/JavierDomi/spotify-explorer/internal/testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Auth   string
	Body   string
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(r *http.Request) recordedRequest {
	body, _ := io.ReadAll(r.Body)
	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  query,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	}

	l.mu.Lock()
	l.requests = append(l.requests, rec)
	l.mu.Unlock()
	return rec
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.requests...)
}

func newTestService(t *testing.T, creds CredentialProvider, handler func(w http.ResponseWriter, r *http.Request, rec recordedRequest)) (*SpotifyService, *requestLog, *httptest.Server) {
	t.Helper()

	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := log.add(r)
		handler(w, r, rec)
	}))
	t.Cleanup(server.Close)

	svc, err := NewSpotifyService(SpotifyOpts{
		BaseURL:     server.URL,
		HTTPClient:  server.Client(),
		Credentials: creds,
		Market:      "US",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc, log, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func trackJSON(id string, popularity any) map[string]any {
	return map[string]any{
		"id":          id,
		"name":        "Track " + id,
		"uri":         "spotify:track:" + id,
		"duration_ms": 200000,
		"popularity":  popularity,
		"artists":     []map[string]any{{"id": "a-" + id, "name": "Artist " + id}},
		"album":       map[string]any{"id": "al-" + id, "name": "Album", "release_date": "1987-03-01"},
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("Requires Credentials", func(t *testing.T) {
			_, err := NewSpotifyService(SpotifyOpts{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			srv, err := NewSpotifyService(SpotifyOpts{Credentials: StaticCredential("token")})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.baseURL != DefaultBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.Market() != DefaultMarket {
				t.Errorf("expected default market, got %s", srv.Market())
			}
			if srv.concurrency != DefaultConcurrency {
				t.Errorf("expected default concurrency, got %d", srv.concurrency)
			}
			if srv.limiter != nil {
				t.Error("expected no limiter without a rate limit")
			}
		})

		t.Run("Service Interface", func(t *testing.T) {
			srv, _ := NewSpotifyService(SpotifyOpts{Credentials: StaticCredential("token")})
			var _ Service = srv
		})
	})

	t.Run("Not Authenticated", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential(""), func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
			writeJSON(t, w, http.StatusOK, map[string]any{})
		})

		_, err := svc.TopTracksForArtist(context.Background(), "artist1")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if n := len(log.all()); n != 0 {
			t.Errorf("expected no network calls, got %d", n)
		}
	})

	t.Run("TopTracksForArtist", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"tracks": []any{trackJSON("t1", 70), trackJSON("t2", nil), trackJSON("t3", 0)},
			})
		})

		tracks, err := svc.TopTracksForArtist(context.Background(), "artist1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		reqs := log.all()
		if len(reqs) != 1 {
			t.Fatalf("expected 1 request, got %d", len(reqs))
		}
		if reqs[0].Path != "/artists/artist1/top-tracks" {
			t.Errorf("unexpected path %s", reqs[0].Path)
		}
		if reqs[0].Query["market"] != "US" {
			t.Errorf("expected market=US, got %q", reqs[0].Query["market"])
		}
		if reqs[0].Auth != "Bearer abc" {
			t.Errorf("expected bearer credential, got %q", reqs[0].Auth)
		}

		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}
		if tracks[0].Popularity == nil || *tracks[0].Popularity != 70 {
			t.Errorf("expected popularity 70, got %v", tracks[0].Popularity)
		}
		if tracks[1].Popularity != nil {
			t.Errorf("expected missing popularity to stay nil, got %v", *tracks[1].Popularity)
		}
		if tracks[2].Popularity == nil || *tracks[2].Popularity != 0 {
			t.Error("expected zero popularity to be kept")
		}
		if tracks[0].Source != models.SourceArtist {
			t.Errorf("expected source %q, got %q", models.SourceArtist, tracks[0].Source)
		}
		if year, ok := tracks[0].Album.Year(); !ok || year != 1987 {
			t.Errorf("expected release year 1987, got %d", year)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			status  int
			body    string
			message string
			expired bool
		}{
			{"provider message", http.StatusNotFound, `{"error":{"status":404,"message":"non existing id"}}`, "non existing id", false},
			{"no message", http.StatusInternalServerError, `<html>oops</html>`, "request failed with status 500", false},
			{"expired token", http.StatusUnauthorized, `{"error":{"status":401,"message":"The access token expired"}}`, "The access token expired", true},
			{"auth style error", http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid refresh token"}`, "invalid_grant: Invalid refresh token", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
					w.WriteHeader(tt.status)
					fmt.Fprint(w, tt.body)
				})

				_, err := svc.TopTracksForArtist(context.Background(), "x")
				if err == nil {
					t.Fatal("expected error")
				}

				var apiErr *shared.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %T: %v", err, err)
				}
				if apiErr.Status != tt.status {
					t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
				}
				if apiErr.Message != tt.message {
					t.Errorf("expected message %q, got %q", tt.message, apiErr.Message)
				}
				if !errors.Is(err, shared.ErrAPIRequest) {
					t.Error("expected error to match ErrAPIRequest")
				}
				if errors.Is(err, shared.ErrTokenExpired) != tt.expired {
					t.Errorf("expected ErrTokenExpired match to be %v", tt.expired)
				}
			})
		}
	})

	t.Run("SearchTracksByGenre", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"tracks": map[string]any{"items": []any{trackJSON("g1", 40), nil}},
			})
		})

		tracks, err := svc.SearchTracksByGenre(context.Background(), "hip hop", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 || tracks[0].Source != models.SourceGenre {
			t.Fatalf("expected one genre-tagged track, got %+v", tracks)
		}

		if _, err := svc.SearchTracksByGenre(context.Background(), "rock", 500); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		reqs := log.all()
		if reqs[0].Path != "/search" {
			t.Errorf("unexpected path %s", reqs[0].Path)
		}
		if reqs[0].Query["q"] != `genre:"hip hop"` {
			t.Errorf("unexpected query %q", reqs[0].Query["q"])
		}
		if reqs[0].Query["type"] != "track" {
			t.Errorf("expected type=track, got %q", reqs[0].Query["type"])
		}
		if reqs[0].Query["limit"] != "20" {
			t.Errorf("expected default limit 20, got %q", reqs[0].Query["limit"])
		}
		if reqs[1].Query["limit"] != "50" {
			t.Errorf("expected limit capped at 50, got %q", reqs[1].Query["limit"])
		}

		if _, err := svc.SearchTracksByGenre(context.Background(), "  ", 10); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for blank genre, got %v", err)
		}
	})

	t.Run("BatchArtistDetails", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			ids := strings.Split(rec.Query["ids"], ",")
			artists := make([]any, 0, len(ids))
			for _, id := range ids {
				if id == "missing" {
					artists = append(artists, nil)
					continue
				}
				artists = append(artists, map[string]any{"id": id, "name": "Name " + id, "genres": []string{"rock"}})
			}
			writeJSON(t, w, http.StatusOK, map[string]any{"artists": artists})
		})

		t.Run("Empty Input", func(t *testing.T) {
			artists, err := svc.BatchArtistDetails(context.Background(), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(artists) != 0 {
				t.Errorf("expected no artists, got %d", len(artists))
			}
			if n := len(log.all()); n != 0 {
				t.Errorf("expected no requests, got %d", n)
			}
		})

		t.Run("Chunks Of Fifty", func(t *testing.T) {
			ids := make([]string, 0, 121)
			for i := range 120 {
				ids = append(ids, fmt.Sprintf("artist%03d", i))
			}
			ids = append(ids, "missing")

			artists, err := svc.BatchArtistDetails(context.Background(), ids)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			reqs := log.all()
			if len(reqs) != 3 {
				t.Fatalf("expected 3 requests, got %d", len(reqs))
			}
			sizes := map[int]int{}
			for _, r := range reqs {
				if r.Path != "/artists" {
					t.Errorf("unexpected path %s", r.Path)
				}
				sizes[len(strings.Split(r.Query["ids"], ","))]++
			}
			if sizes[50] != 2 || sizes[21] != 1 {
				t.Errorf("unexpected chunk sizes %v", sizes)
			}

			if len(artists) != 120 {
				t.Fatalf("expected 120 artists, got %d", len(artists))
			}
			for i, a := range artists {
				if want := fmt.Sprintf("artist%03d", i); a.ID != want {
					t.Fatalf("expected %s at %d, got %s", want, i, a.ID)
				}
			}
		})
	})

	t.Run("BatchAudioFeatures", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			ids := strings.Split(rec.Query["ids"], ",")
			features := make([]any, 0, len(ids))
			for i, id := range ids {
				if i%10 == 9 {
					features = append(features, nil)
					continue
				}
				features = append(features, map[string]any{"id": id, "energy": 0.5, "danceability": 0.6, "valence": 0.7})
			}
			writeJSON(t, w, http.StatusOK, map[string]any{"audio_features": features})
		})

		ids := make([]string, 0, 250)
		for i := range 250 {
			ids = append(ids, fmt.Sprintf("t%03d", i))
		}

		features, err := svc.BatchAudioFeatures(context.Background(), ids)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if n := len(log.all()); n != 3 {
			t.Errorf("expected 3 requests, got %d", n)
		}
		if len(features) != 225 {
			t.Errorf("expected null entries to be dropped, got %d features", len(features))
		}
		if features[0].ID != "t000" || features[0].Valence != 0.7 {
			t.Errorf("unexpected first feature %+v", features[0])
		}
	})

	t.Run("Batch Failure", func(t *testing.T) {
		var calls atomic.Int32
		svc, _, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			if calls.Add(1) == 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]any{"audio_features": []any{}})
		})

		ids := make([]string, 0, 300)
		for i := range 300 {
			ids = append(ids, fmt.Sprintf("t%03d", i))
		}

		if _, err := svc.BatchAudioFeatures(context.Background(), ids); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected the failed batch to fail the operation, got %v", err)
		}
	})

	t.Run("FetchAll", func(t *testing.T) {
		var base string
		svc, log, server := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			switch rec.Path {
			case "/items":
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []int{1, 2}, "next": base + "/items/2"})
			case "/items/2":
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []int{3, 4}, "next": base + "/items/3"})
			default:
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []int{5}, "next": nil})
			}
		})
		base = server.URL

		raw, err := svc.FetchAll(context.Background(), "/items", "items")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(raw) != 5 {
			t.Fatalf("expected 5 items, got %d", len(raw))
		}
		for i, r := range raw {
			if string(r) != fmt.Sprint(i+1) {
				t.Errorf("expected item %d at %d, got %s", i+1, i, r)
			}
		}
		if n := len(log.all()); n != 3 {
			t.Errorf("expected 3 page requests, got %d", n)
		}
	})

	t.Run("PlaylistTracks", func(t *testing.T) {
		svc, _, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			if rec.Path == "/playlists/missing/tracks" {
				writeJSON(t, w, http.StatusNotFound, map[string]any{"error": map[string]any{"status": 404, "message": "Not found."}})
				return
			}
			local := trackJSON("local1", nil)
			local["is_local"] = true
			writeJSON(t, w, http.StatusOK, map[string]any{
				"items": []any{
					map[string]any{"track": trackJSON("p1", 10)},
					map[string]any{"track": nil},
					map[string]any{"track": local},
					map[string]any{"track": trackJSON("p2", 20)},
				},
				"next": nil,
			})
		})

		tracks, err := svc.PlaylistTracks(context.Background(), "pl1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 || tracks[0].ID != "p1" || tracks[1].ID != "p2" {
			t.Fatalf("expected p1, p2, got %+v", tracks)
		}
		if tracks[0].Source != models.SourcePlaylist {
			t.Errorf("expected playlist source, got %q", tracks[0].Source)
		}

		if _, err := svc.PlaylistTracks(context.Background(), "missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Library", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			switch rec.Path {
			case "/me/top/tracks":
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{trackJSON("top1", 90)}})
			case "/me/top/artists":
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{map[string]any{"id": "a1", "name": "A"}}})
			case "/me/player/recently-played":
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{
					map[string]any{"track": trackJSON("r1", 1), "played_at": "2024-01-01T00:00:00Z"},
					map[string]any{"track": trackJSON("r1", 1), "played_at": "2024-01-01T00:05:00Z"},
				}})
			case "/me/tracks":
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{map[string]any{"track": trackJSON("s1", 5)}}, "next": nil})
			case "/me/playlists":
				writeJSON(t, w, http.StatusOK, map[string]any{
					"items": []any{map[string]any{"id": "pl1", "name": "Mine", "public": true, "owner": map[string]any{"id": "u1"}, "tracks": map[string]any{"total": 12}}},
					"next":  nil,
				})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})
		ctx := context.Background()

		top, err := svc.UserTopTracks(ctx, "short", 5)
		if err != nil || len(top) != 1 || top[0].Source != models.SourceTop {
			t.Fatalf("unexpected top tracks %+v, %v", top, err)
		}

		artists, err := svc.UserTopArtists(ctx, "", 0)
		if err != nil || len(artists) != 1 {
			t.Fatalf("unexpected top artists %+v, %v", artists, err)
		}

		recent, err := svc.RecentlyPlayed(ctx, 10)
		if err != nil || len(recent) != 2 || recent[0].Source != models.SourceRecent {
			t.Fatalf("unexpected recent tracks %+v, %v", recent, err)
		}

		saved, err := svc.SavedTracks(ctx, 0)
		if err != nil || len(saved) != 1 || saved[0].Source != models.SourceSaved {
			t.Fatalf("unexpected saved tracks %+v, %v", saved, err)
		}

		playlists, err := svc.UserPlaylists(ctx)
		if err != nil || len(playlists) != 1 {
			t.Fatalf("unexpected playlists %+v, %v", playlists, err)
		}
		if playlists[0].TrackCount != 12 || !playlists[0].Public || playlists[0].Owner != "u1" {
			t.Errorf("unexpected playlist mapping %+v", playlists[0])
		}

		reqs := log.all()
		if reqs[0].Query["time_range"] != ShortTerm || reqs[0].Query["limit"] != "5" {
			t.Errorf("unexpected top tracks query %v", reqs[0].Query)
		}
		if reqs[1].Query["time_range"] != MediumTerm || reqs[1].Query["limit"] != "20" {
			t.Errorf("unexpected top artists query %v", reqs[1].Query)
		}
	})

	t.Run("CreatePlaylistWithTracks", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
			switch {
			case rec.Path == "/me":
				writeJSON(t, w, http.StatusOK, map[string]any{"id": "user1", "display_name": "User One"})
			case rec.Path == "/users/user1/playlists":
				writeJSON(t, w, http.StatusCreated, map[string]any{"id": "new1", "name": "My Mix", "public": false, "uri": "spotify:playlist:new1"})
			case rec.Path == "/playlists/new1/tracks":
				writeJSON(t, w, http.StatusCreated, map[string]any{"snapshot_id": "s"})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})

		uris := make([]string, 0, 250)
		for i := range 250 {
			uris = append(uris, fmt.Sprintf("spotify:track:%03d", i))
		}

		playlist, err := svc.CreatePlaylistWithTracks(context.Background(), "My Mix", "Generated", uris)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.ID != "new1" || playlist.Public || playlist.TrackCount != 250 {
			t.Errorf("unexpected playlist %+v", playlist)
		}

		reqs := log.all()
		if len(reqs) != 5 {
			t.Fatalf("expected 5 requests, got %d", len(reqs))
		}

		var create map[string]any
		if err := json.Unmarshal([]byte(reqs[1].Body), &create); err != nil {
			t.Fatalf("failed to decode create body: %v", err)
		}
		if create["public"] != false || create["name"] != "My Mix" || create["description"] != "Generated" {
			t.Errorf("unexpected create body %v", create)
		}

		var order []string
		for _, r := range reqs[2:] {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			var add struct {
				URIs []string `json:"uris"`
			}
			if err := json.Unmarshal([]byte(r.Body), &add); err != nil {
				t.Fatalf("failed to decode add body: %v", err)
			}
			if len(add.URIs) > 100 {
				t.Errorf("batch too large: %d", len(add.URIs))
			}
			order = append(order, add.URIs...)
		}
		if len(order) != 250 || order[0] != uris[0] || order[249] != uris[249] {
			t.Error("expected every URI to be added in order")
		}
	})

	t.Run("CreatePlaylistWithTracks Rejects Empty Name", func(t *testing.T) {
		svc, log, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
			w.WriteHeader(http.StatusOK)
		})

		if _, err := svc.CreatePlaylistWithTracks(context.Background(), " ", "", nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if n := len(log.all()); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		svc, _, _ := newTestService(t, StaticCredential("abc"), func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
			writeJSON(t, w, http.StatusOK, map[string]any{"tracks": []any{}})
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := svc.TopTracksForArtist(ctx, "a"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSpotifyService_Transport(t *testing.T) {
	newService := func(t *testing.T, rt http.RoundTripper) *SpotifyService {
		t.Helper()
		svc, err := NewSpotifyService(SpotifyOpts{
			BaseURL:     "http://spotify.test",
			HTTPClient:  &http.Client{Transport: rt},
			Credentials: StaticCredential("abc"),
		})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		return svc
	}

	t.Run("Connection Failure", func(t *testing.T) {
		svc := newService(t, tu.StaticTransport(nil, errors.New("connection refused")))

		_, err := svc.TopTracksForArtist(context.Background(), "a")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Unreadable Body", func(t *testing.T) {
		resp := tu.JSONResponse(http.StatusOK, "")
		resp.Body = tu.FailingBody{}
		svc := newService(t, tu.StaticTransport(resp, nil))

		_, err := svc.TopTracksForArtist(context.Background(), "a")
		if err == nil || !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("Provider Error Message", func(t *testing.T) {
		body := `{"error":{"status":404,"message":"non existing id"}}`
		svc := newService(t, tu.StaticTransport(tu.JSONResponse(http.StatusNotFound, body), nil))

		_, err := svc.TopTracksForArtist(context.Background(), "missing")
		if err == nil || !strings.Contains(err.Error(), "non existing id") {
			t.Errorf("expected provider message in error, got %v", err)
		}
	})
}
