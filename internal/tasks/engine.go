package tasks

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/services"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/JavierDomi/spotify-explorer/internal/stats"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 4
	DefaultGenreLimit  = 20
)

// Backend is the catalog access the engine needs.
type Backend interface {
	services.Catalog
	stats.Lookup
	services.PlaylistWriter
}

// Mixer defines the mix lifecycle operations.
type Mixer interface {
	// Generate builds a bounded, de-duplicated, shuffled mix from prefs.
	Generate(ctx context.Context, prefs models.Preferences, progress chan<- ProgressUpdate) ([]models.Track, error)

	// Analyze computes the statistics bundle for tracks.
	Analyze(ctx context.Context, tracks []models.Track, progress chan<- ProgressUpdate) (*models.StatsBundle, error)

	// Save persists tracks as a new private playlist.
	Save(ctx context.Context, name, description string, tracks []models.Track, progress chan<- ProgressUpdate) (*models.Playlist, error)
}

// MixOpts configures a [MixEngine]. Zero values use the defaults.
type MixOpts struct {
	Concurrency int        // max concurrent artist/genre fetches
	MaxTracks   int        // mix size bound, capped at [shared.MaxMixSize]
	GenreLimit  int        // tracks requested per genre search
	Rand        *rand.Rand // shuffle source; nil uses the global generator
	Logger      *log.Logger
}

// MixEngine implements [Mixer] on top of a catalog backend.
type MixEngine struct {
	backend Backend
	opts    MixOpts
	logger  *log.Logger

	randMu sync.Mutex
}

// NewMixEngine creates a MixEngine over backend.
func NewMixEngine(backend Backend, opts MixOpts) *MixEngine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxTracks <= 0 || opts.MaxTracks > shared.MaxMixSize {
		opts.MaxTracks = shared.MaxMixSize
	}
	if opts.GenreLimit <= 0 {
		opts.GenreLimit = DefaultGenreLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &MixEngine{backend: backend, opts: opts, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// fetchJob is one artist or genre lookup, writing into its own slot of the pool.
type fetchJob struct {
	label string
	fetch func(ctx context.Context) ([]models.Track, error)
}

// Generate runs the mix pipeline:
//
//  1. explicit tracks, then favorites, in order
//  2. top tracks per artist, then a genre search per genre, in selection order
//  3. decade filter, popularity filter
//  4. de-duplication by ID keeping the first occurrence
//  5. uniform shuffle, truncated to MaxTracks
//
// Fetches in step 2 run concurrently, but results are assembled in selection order.
// Any fetch failure fails the whole generation and cancels the remaining fetches.
func (e *MixEngine) Generate(ctx context.Context, prefs models.Preferences, progress chan<- ProgressUpdate) ([]models.Track, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	pool := make([]models.Track, 0, len(prefs.Tracks)+len(prefs.Favorites))
	pool = append(pool, tagged(prefs.Tracks, models.SourceSelected)...)
	pool = append(pool, tagged(prefs.Favorites, models.SourceFavorite)...)

	jobs := e.fetchJobs(prefs)
	if len(jobs) > 0 {
		fetched, err := e.runJobs(ctx, jobs, progress)
		if err != nil {
			return nil, err
		}
		for _, tracks := range fetched {
			pool = append(pool, tracks...)
		}
	}

	sendProgress(progress, filterUpdate(len(pool)))

	candidates := filterDecades(pool, prefs.Decades)
	candidates = filterPopularity(candidates, prefs.Popularity)
	candidates = dedupe(candidates)

	e.randMu.Lock()
	mix := shuffle(candidates, e.opts.Rand, e.opts.MaxTracks)
	e.randMu.Unlock()

	e.logger.Debug("generated mix", "pool", len(pool), "candidates", len(candidates), "tracks", len(mix))
	sendProgress(progress, mixReadyUpdate(mix))
	return mix, nil
}

func (e *MixEngine) fetchJobs(prefs models.Preferences) []fetchJob {
	jobs := make([]fetchJob, 0, len(prefs.Artists)+len(prefs.Genres))

	for _, artist := range prefs.Artists {
		if artist.ID == "" {
			continue
		}
		label := artist.Name
		if label == "" {
			label = artist.ID
		}
		jobs = append(jobs, fetchJob{
			label: label,
			fetch: func(ctx context.Context) ([]models.Track, error) {
				return e.backend.TopTracksForArtist(ctx, artist.ID)
			},
		})
	}

	for _, genre := range prefs.Genres {
		genre = strings.TrimSpace(genre)
		if genre == "" {
			continue
		}
		jobs = append(jobs, fetchJob{
			label: genre,
			fetch: func(ctx context.Context) ([]models.Track, error) {
				return e.backend.SearchTracksByGenre(ctx, genre, e.opts.GenreLimit)
			},
		})
	}

	return jobs
}

func (e *MixEngine) runJobs(ctx context.Context, jobs []fetchJob, progress chan<- ProgressUpdate) ([][]models.Track, error) {
	slots := make([][]models.Track, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	var doneMu sync.Mutex
	done := 0

	for i, job := range jobs {
		g.Go(func() error {
			tracks, err := job.fetch(gctx)
			if err != nil {
				return fmt.Errorf("failed to fetch tracks for %s: %w", job.label, err)
			}
			slots[i] = tracks

			doneMu.Lock()
			done++
			step := done
			doneMu.Unlock()

			sendProgress(progress, fetchSourceUpdate(step, len(jobs), job.label, len(tracks)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// Analyze computes the statistics bundle for tracks.
func (e *MixEngine) Analyze(ctx context.Context, tracks []models.Track, progress chan<- ProgressUpdate) (*models.StatsBundle, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, analyzeUpdate(len(tracks)))

	bundle, err := stats.Bundle(ctx, e.backend, tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	sendProgress(progress, statsReadyUpdate(bundle))
	return bundle, nil
}

// Save creates a private playlist holding tracks in their current order.
func (e *MixEngine) Save(ctx context.Context, name, description string, tracks []models.Track, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: nothing to save", shared.ErrInvalidInput)
	}

	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if uri := t.TrackURI(); uri != "" {
			uris = append(uris, uri)
		}
	}

	sendProgress(progress, createPlaylistUpdate(name, len(uris)))

	playlist, err := e.backend.CreatePlaylistWithTracks(ctx, name, description, uris)
	if err != nil {
		return nil, fmt.Errorf("failed to save playlist: %w", err)
	}

	sendProgress(progress, playlistCreatedUpdate(playlist))
	return playlist, nil
}
