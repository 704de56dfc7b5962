package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/JavierDomi/spotify-explorer/internal/formatter"
	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"golang.org/x/time/rate"
)

// PlaylistSource loads the tracks of an existing playlist.
type PlaylistSource interface {
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)
}

// BulkAnalyzeOpts contains configuration for bulk playlist reports.
type BulkAnalyzeOpts struct {
	Format      string  // Report format: json, csv, markdown, text
	OutputDir   string  // Base output directory (default: spex_reports_{epoch})
	NumWorkers  int     // Concurrent workers (default: 3, max: 8)
	RateLimit   float64 // Playlist fetches per second (default: 5)
	CoverImages bool    // Download the top artist image for markdown reports
}

// BulkAnalyzeResult summarizes a bulk report run. Results keep the input order.
type BulkAnalyzeResult struct {
	TotalPlaylists  int                    `json:"total_playlists"`
	Successful      int                    `json:"successful"`
	Failed          int                    `json:"failed"`
	OutputDirectory string                 `json:"output_directory"`
	ManifestPath    string                 `json:"-"`
	Results         []PlaylistReportResult `json:"results"`
}

// PlaylistReportResult is the outcome for one playlist.
type PlaylistReportResult struct {
	PlaylistID   string              `json:"playlist_id"`
	PlaylistName string              `json:"playlist_name"`
	Success      bool                `json:"success"`
	Files        []string            `json:"files,omitempty"`
	TrackCount   int                 `json:"track_count"`
	Mood         string              `json:"mood,omitempty"`
	Error        error               `json:"-"`
	ErrorMessage string              `json:"error,omitempty"`
	Stats        *models.StatsBundle `json:"-"`

	index int
}

type reportJob struct {
	index    int
	playlist models.Playlist
	tracks   []models.Track
}

// BulkAnalyze computes statistics for many playlists and writes one report per playlist plus a
// manifest, using a rate-limited producer and a pool of analysis workers.
// A failing playlist is recorded in the result and does not stop the others.
func (e *MixEngine) BulkAnalyze(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	src PlaylistSource,
	playlists []models.Playlist,
	opts BulkAnalyzeOpts,
) (*BulkAnalyzeResult, error) {
	if src == nil || e.backend == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	format, err := formatter.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = format

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spex_reports_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	opts.NumWorkers = min(opts.NumWorkers, 8)
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(playlists)
	result := &BulkAnalyzeResult{
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistReportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan reportJob, total)
	results := make(chan PlaylistReportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.reportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, pl := range playlists {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(prog, fetchCollectionUpdate(i+1, total, displayName(pl)))

			tracks, err := src.PlaylistTracks(ctx, pl.ID)
			if err != nil {
				results <- PlaylistReportResult{
					index:        i,
					PlaylistID:   pl.ID,
					PlaylistName: displayName(pl),
					Error:        fmt.Errorf("failed to fetch playlist: %w", err),
				}
				continue
			}

			jobs <- reportJob{index: i, playlist: pl, tracks: tracks}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
			result.Failed++
			sendProgress(prog, reportFailedUpdate(completed, total, res.PlaylistName, res.Error))
		} else {
			result.Successful++
			sendProgress(prog, reportWrittenUpdate(completed, total, res.PlaylistName, len(res.Files)))
		}
		result.Results = append(result.Results, res)
	}

	slices.SortFunc(result.Results, func(a, b PlaylistReportResult) int { return a.index - b.index })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "report_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("reports completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// reportWorker analyzes playlists from the jobs channel.
func (e *MixEngine) reportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan reportJob,
	results chan<- PlaylistReportResult,
	opts BulkAnalyzeOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- e.reportSinglePlaylist(ctx, job, opts)
	}
}

// reportSinglePlaylist computes stats for one playlist and writes its report in the requested format.
func (e *MixEngine) reportSinglePlaylist(ctx context.Context, j reportJob, opts BulkAnalyzeOpts) PlaylistReportResult {
	res := PlaylistReportResult{
		index:        j.index,
		PlaylistID:   j.playlist.ID,
		PlaylistName: displayName(j.playlist),
		TrackCount:   len(j.tracks),
		Files:        []string{},
	}

	bundle, err := e.Analyze(ctx, j.tracks, nil)
	if err != nil {
		res.Error = err
		return res
	}
	res.Stats = bundle
	if bundle.Mood != nil {
		res.Mood = bundle.Mood.Label
	}

	pl := j.playlist
	report := &formatter.Report{Title: displayName(pl), Playlist: &pl, Tracks: j.tracks, Stats: bundle}
	base := filepath.Join(opts.OutputDir, pl.ID)

	switch opts.Format {
	case formatter.FormatCSV:
		out, err := formatter.WriteCSVExport(report, base)
		if err != nil {
			res.Error = fmt.Errorf("CSV report failed: %w", err)
			return res
		}
		res.Files = append(res.Files, out.TracksFile)
		if out.StatsFile != "" {
			res.Files = append(res.Files, out.StatsFile)
		}

	case formatter.FormatMarkdown:
		var imageURL string
		if opts.CoverImages && len(bundle.Artists) > 0 {
			imageURL = bundle.Artists[0].Image
		}
		out, err := formatter.WriteMarkdownExport(report, base, imageURL)
		if err != nil {
			res.Error = fmt.Errorf("markdown report failed: %w", err)
			return res
		}
		res.Files = out.Files

	case formatter.FormatText:
		path, err := formatter.WriteTextExport(report, base+"_report.txt")
		if err != nil {
			res.Error = fmt.Errorf("text report failed: %w", err)
			return res
		}
		res.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(report, base+".json")
		if err != nil {
			res.Error = err
			return res
		}
		res.Files = []string{path}
	}

	res.Success = true
	return res
}

func displayName(pl models.Playlist) string {
	if pl.Name != "" {
		return pl.Name
	}
	return pl.ID
}
