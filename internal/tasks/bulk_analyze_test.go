package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	tu "github.com/JavierDomi/spotify-explorer/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkFixture(n int) (*tu.MockService, []models.Playlist) {
	catalog := tu.NewMockService()
	catalog.Artists["r"] = tu.NewArtist("r", "rock")

	playlists := make([]models.Playlist, 0, n)
	for i := range n {
		id := "playlist" + string(rune('1'+i))
		playlists = append(playlists, models.Playlist{ID: id, Name: "Playlist " + id})
		catalog.PlaylistItems[id] = tu.Tracks(id, 3, tu.WithArtists("r"), tu.WithRelease("1984"), tu.WithPopularity(50))
	}
	return catalog, playlists
}

func TestBulkAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		playlists int
		wantFiles int
		check     func(t *testing.T, dir string, result *BulkAnalyzeResult)
	}{
		{
			name:      "json reports",
			format:    "json",
			playlists: 1,
			wantFiles: 1,
			check: func(t *testing.T, dir string, result *BulkAnalyzeResult) {
				data, err := os.ReadFile(filepath.Join(dir, "playlist1.json"))
				require.NoError(t, err)

				var report struct {
					Title string             `json:"title"`
					Stats models.StatsBundle `json:"stats"`
				}
				require.NoError(t, json.Unmarshal(data, &report))
				assert.Equal(t, "Playlist playlist1", report.Title)
				assert.Equal(t, 3, report.Stats.TrackCount)
			},
		},
		{
			name:      "csv reports include stats",
			format:    "csv",
			playlists: 3,
			wantFiles: 2,
		},
		{
			name:      "text reports",
			format:    "txt",
			playlists: 2,
			wantFiles: 1,
			check: func(t *testing.T, dir string, result *BulkAnalyzeResult) {
				tu.AssertFileExists(t, filepath.Join(dir, "playlist2_report.txt"))
			},
		},
		{
			name:      "markdown reports",
			format:    "md",
			playlists: 2,
			wantFiles: 1,
			check: func(t *testing.T, dir string, result *BulkAnalyzeResult) {
				tu.AssertFileExists(t, filepath.Join(dir, "playlist1", "README.md"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, playlists := bulkFixture(tt.playlists)
			dir := t.TempDir()

			result, err := newEngine(catalog, MixOpts{}).BulkAnalyze(context.Background(), nil, catalog, playlists, BulkAnalyzeOpts{
				Format:    tt.format,
				OutputDir: dir,
				RateLimit: 100,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.playlists, result.TotalPlaylists)
			assert.Equal(t, tt.playlists, result.Successful)
			assert.Zero(t, result.Failed)
			require.Len(t, result.Results, tt.playlists)
			for i, res := range result.Results {
				assert.Equal(t, playlists[i].ID, res.PlaylistID)
				assert.True(t, res.Success)
				assert.Len(t, res.Files, tt.wantFiles)
				assert.Equal(t, 3, res.TrackCount)
			}

			tu.AssertFileExists(t, result.ManifestPath)
			if tt.check != nil {
				tt.check(t, dir, result)
			}
		})
	}
}

func TestBulkAnalyze_PartialFailure(t *testing.T) {
	catalog, playlists := bulkFixture(3)
	catalog.Errors["PlaylistTracks:playlist2"] = shared.ErrPlaylistNotFound
	dir := t.TempDir()

	progress := make(chan ProgressUpdate, 20)
	result, err := newEngine(catalog, MixOpts{}).BulkAnalyze(context.Background(), progress, catalog, playlists, BulkAnalyzeOpts{
		Format:     "json",
		OutputDir:  dir,
		NumWorkers: 2,
		RateLimit:  100,
	})
	require.NoError(t, err)
	close(progress)

	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 3)

	failed := result.Results[1]
	assert.Equal(t, "playlist2", failed.PlaylistID)
	assert.False(t, failed.Success)
	assert.ErrorIs(t, failed.Error, shared.ErrPlaylistNotFound)
	assert.Contains(t, failed.ErrorMessage, "playlist not found")

	data, err := os.ReadFile(result.ManifestPath)
	require.NoError(t, err)
	var manifest BulkAnalyzeResult
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, 1, manifest.Failed)
	assert.Contains(t, manifest.Results[1].ErrorMessage, "failed to fetch playlist")

	written := 0
	for u := range progress {
		if u.Phase == WriteReport {
			written++
		}
	}
	assert.Equal(t, 3, written)
}

func TestBulkAnalyze_Validation(t *testing.T) {
	catalog, playlists := bulkFixture(1)

	_, err := newEngine(catalog, MixOpts{}).BulkAnalyze(context.Background(), nil, catalog, playlists, BulkAnalyzeOpts{Format: "xml", OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, shared.ErrInvalidFlag)

	_, err = newEngine(catalog, MixOpts{}).BulkAnalyze(context.Background(), nil, nil, playlists, BulkAnalyzeOpts{OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
}

func TestBulkAnalyze_Cancelled(t *testing.T) {
	catalog, playlists := bulkFixture(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newEngine(catalog, MixOpts{}).BulkAnalyze(ctx, nil, catalog, playlists, BulkAnalyzeOpts{OutputDir: t.TempDir(), RateLimit: 100})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Zero(t, result.Successful)
}
