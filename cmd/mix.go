package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/JavierDomi/spotify-explorer/internal/formatter"
	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/JavierDomi/spotify-explorer/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MixGenerate builds a mix from the selection flags and prints it, optionally with
// statistics, saving it as a playlist when --save is given.
func (r *Runner) MixGenerate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	outputPath := cmd.String("output")
	quiet := format != formatter.FormatText && outputPath == ""

	var mix []models.Track
	err = r.withReauth(ctx, func() error {
		prefs, err := r.preferences(ctx, cmd)
		if err != nil {
			return err
		}

		r.logger.Info("generating mix",
			"artists", len(prefs.Artists), "tracks", len(prefs.Tracks), "genres", len(prefs.Genres),
			"decades", prefs.Decades, "favorites", len(prefs.Favorites))

		progress, wait := r.watchProgress(quiet)
		mix, err = r.engine.Generate(ctx, prefs, progress)
		wait()
		return err
	})
	if err != nil {
		return err
	}

	report := &formatter.Report{Title: "Mix", Tracks: mix}
	if len(mix) == 0 && !quiet {
		r.writePlain("No tracks matched your selections\n")
	}

	if cmd.Bool("stats") && len(mix) > 0 {
		progress, wait := r.watchProgress(quiet)
		report.Stats, err = r.engine.Analyze(ctx, mix, progress)
		wait()
		if err != nil {
			return err
		}
	}

	if name := strings.TrimSpace(cmd.String("save")); name != "" {
		description := cmd.String("description")
		if description == "" {
			description = r.config.Mixer.SaveDescription
		}

		progress, wait := r.watchProgress(quiet)
		report.Playlist, err = r.engine.Save(ctx, name, description, mix, progress)
		wait()
		if err != nil {
			return err
		}
		report.Title = report.Playlist.Name
	}

	return r.emit(report, format, outputPath)
}

// MixStats computes statistics for an existing playlist or library source.
func (r *Runner) MixStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	playlistID := strings.TrimSpace(cmd.String("playlist"))
	source := strings.TrimSpace(cmd.String("source"))
	switch {
	case playlistID == "" && source == "":
		return fmt.Errorf("%w: one of --playlist or --source is required", shared.ErrMissingArgument)
	case playlistID != "" && source != "":
		return fmt.Errorf("%w: cannot specify both --playlist and --source", shared.ErrInvalidArgument)
	}

	outputPath := cmd.String("output")
	quiet := format != formatter.FormatText && outputPath == ""

	var tracks []models.Track
	title := "Playlist " + playlistID
	err = r.withReauth(ctx, func() error {
		var err error
		if playlistID != "" {
			tracks, err = r.spotify.PlaylistTracks(ctx, playlistID)
		} else {
			title = sourceTitle(source)
			tracks, err = r.loadSource(ctx, source, cmd.String("time-range"), cmd.Int("limit"))
		}
		return err
	})
	if err != nil {
		return err
	}

	progress, wait := r.watchProgress(quiet)
	bundle, err := r.engine.Analyze(ctx, tracks, progress)
	wait()
	if err != nil {
		return err
	}

	report := &formatter.Report{Title: title, Tracks: tracks, Stats: bundle}
	if format == formatter.FormatText && outputPath == "" {
		r.writePlainHeader(fmt.Sprintf("Statistics for %s (%d tracks)", title, len(tracks)))
		if len(tracks) == 0 {
			return r.writePlain("No tracks to analyze\n")
		}
		_, err := r.output.Write(formatter.StatsToText(bundle))
		return err
	}

	return r.emit(report, format, outputPath)
}

// MixReport writes a statistics report for many playlists at once.
func (r *Runner) MixReport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	ids := cmd.StringSlice("playlist")
	all := cmd.Bool("all")
	if len(ids) == 0 && !all {
		return fmt.Errorf("%w: provide --playlist at least once or --all", shared.ErrMissingArgument)
	}

	var playlists []models.Playlist
	if all {
		err := r.withReauth(ctx, func() error {
			var err error
			playlists, err = r.spotify.UserPlaylists(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}
	for _, id := range shared.Unique(ids) {
		if id = strings.TrimSpace(id); id != "" && !containsPlaylist(playlists, id) {
			playlists = append(playlists, models.Playlist{ID: id})
		}
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists to analyze\n")
	}

	r.writePlain("Analyzing %d playlists...\n\n", len(playlists))

	progress, wait := r.watchProgress(false)
	result, err := r.engine.BulkAnalyze(ctx, progress, r.spotify, playlists, tasks.BulkAnalyzeOpts{
		Format:      cmd.String("format"),
		OutputDir:   cmd.String("output"),
		NumWorkers:  cmd.Int("workers"),
		RateLimit:   cmd.Float("rate"),
		CoverImages: cmd.Bool("covers"),
	})
	wait()

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Report Complete")
		r.writePlain("Playlists: %d\n", result.TotalPlaylists)
		r.writePlain("Successful: %d\n", result.Successful)
		r.writePlain("Failed: %d\n", result.Failed)
		r.writePlain("Output: %s\n", result.OutputDirectory)
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}

		if result.Failed > 0 {
			r.writePlain("\nFailed playlists:\n")
			for _, res := range result.Results {
				if !res.Success {
					r.writePlain("  - %s: %s\n", res.PlaylistName, res.ErrorMessage)
				}
			}
		}
	}

	return err
}

// preferences builds the mix selection from the command flags.
func (r *Runner) preferences(ctx context.Context, cmd *cli.Command) (models.Preferences, error) {
	var prefs models.Preferences

	for _, id := range cmd.StringSlice("artist") {
		if id = strings.TrimSpace(id); id != "" {
			prefs.Artists = append(prefs.Artists, models.Artist{ID: id})
		}
	}
	for _, query := range cmd.StringSlice("artist-search") {
		artists, err := r.spotify.SearchArtists(ctx, query, 1)
		if err != nil {
			return prefs, fmt.Errorf("failed to search artist %q: %w", query, err)
		}
		if len(artists) == 0 {
			r.logger.Warn("no artist matched", "query", query)
			continue
		}
		r.logger.Info("resolved artist", "query", query, "artist", artists[0].Name, "id", artists[0].ID)
		prefs.Artists = append(prefs.Artists, artists[0])
	}

	for _, id := range cmd.StringSlice("track") {
		if id = strings.TrimSpace(id); id != "" {
			prefs.Tracks = append(prefs.Tracks, models.Track{ID: id})
		}
	}
	for _, query := range cmd.StringSlice("track-search") {
		tracks, err := r.spotify.SearchTracks(ctx, query, 1)
		if err != nil {
			return prefs, fmt.Errorf("failed to search track %q: %w", query, err)
		}
		if len(tracks) == 0 {
			r.logger.Warn("no track matched", "query", query)
			continue
		}
		prefs.Tracks = append(prefs.Tracks, tracks[0])
	}

	prefs.Genres = cmd.StringSlice("genre")

	decades, err := parseDecades(cmd.StringSlice("decade"))
	if err != nil {
		return prefs, err
	}
	prefs.Decades = decades

	if s := strings.TrimSpace(cmd.String("popularity")); s != "" {
		rng, err := parseRange(s)
		if err != nil {
			return prefs, err
		}
		prefs.Popularity = &rng
	}

	if cmd.Bool("favorites") {
		store, err := r.favoriteStore()
		if err != nil {
			return prefs, err
		}
		if prefs.Favorites, err = store.Tracks(); err != nil {
			return prefs, fmt.Errorf("failed to load favorites: %w", err)
		}
	}

	if !prefs.HasSources() {
		return prefs, fmt.Errorf("%w: select at least one --artist, --track, --genre or --favorites", shared.ErrMissingArgument)
	}
	return prefs, nil
}

// loadSource reads one of the signed-in user's library collections.
func (r *Runner) loadSource(ctx context.Context, source, timeRange string, limit int) ([]models.Track, error) {
	switch strings.ToLower(source) {
	case models.SourceTop:
		return r.spotify.UserTopTracks(ctx, timeRange, limit)
	case models.SourceRecent:
		return r.spotify.RecentlyPlayed(ctx, limit)
	case models.SourceSaved:
		return r.spotify.SavedTracks(ctx, limit)
	default:
		return nil, fmt.Errorf("%w: unknown source %q (want top, recent or saved)", shared.ErrInvalidFlag, source)
	}
}

// emit renders report to stdout, or to files when path is set.
func (r *Runner) emit(report *formatter.Report, format, path string) error {
	if path == "" {
		data, err := formatter.Render(report, format)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(string(data), "\n") {
			data = append(data, '\n')
		}
		_, err = r.output.Write(data)
		return err
	}

	var files []string
	switch format {
	case formatter.FormatCSV:
		res, err := formatter.WriteCSVExport(report, strings.TrimSuffix(path, filepath.Ext(path)))
		if err != nil {
			return err
		}
		files = append(files, res.TracksFile)
		if res.StatsFile != "" {
			files = append(files, res.StatsFile)
		}
	case formatter.FormatMarkdown:
		res, err := formatter.WriteMarkdownExport(report, path, "")
		if err != nil {
			return err
		}
		files = res.Files
	case formatter.FormatJSON:
		file, err := formatter.WriteJSONExport(report, path)
		if err != nil {
			return err
		}
		files = append(files, file)
	default:
		file, err := formatter.WriteTextExport(report, path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	r.logger.Info("report written", "files", files)
	for _, f := range files {
		r.writePlain("✓ Wrote %s\n", f)
	}
	return nil
}

// watchProgress returns a progress channel and a func that closes it and waits until
// every update has been printed. Quiet runs log updates at debug level instead of printing.
func (r *Runner) watchProgress(quiet bool) (chan<- tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			if quiet {
				r.logger.Debug(update.Message, "phase", update.Phase.String())
				continue
			}

			switch update.Phase {
			case tasks.FetchSources, tasks.FetchCollection:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FilterTracks, tasks.Analyze:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.MixReady, tasks.StatsReady:
				r.writePlain("✓ %s\n\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.WriteReport:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	var once sync.Once
	return progressCh, func() {
		once.Do(func() {
			close(progressCh)
			wg.Wait()
		})
	}
}

// parseRange parses an inclusive "MIN-MAX" popularity range within 0-100.
func parseRange(s string) (models.Range, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return models.Range{}, fmt.Errorf("%w: popularity must look like 40-60, got %q", shared.ErrInvalidFlag, s)
	}

	minV, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return models.Range{}, fmt.Errorf("%w: invalid popularity minimum %q", shared.ErrInvalidFlag, lo)
	}
	maxV, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return models.Range{}, fmt.Errorf("%w: invalid popularity maximum %q", shared.ErrInvalidFlag, hi)
	}

	if minV < 0 || maxV > 100 || minV > maxV {
		return models.Range{}, fmt.Errorf("%w: popularity range %d-%d must satisfy 0 <= min <= max <= 100", shared.ErrInvalidFlag, minV, maxV)
	}
	return models.Range{Min: minV, Max: maxV}, nil
}

// parseDecades normalizes labels like "1980s" to start years and rejects anything else.
func parseDecades(labels []string) ([]string, error) {
	var decades []string
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		decade := models.NormalizeDecade(label)
		start, ok := models.DecadeStart(decade)
		if !ok || start%10 != 0 || start < 1000 {
			return nil, fmt.Errorf("%w: invalid decade %q (want e.g. 1980 or 1980s)", shared.ErrInvalidFlag, label)
		}
		decades = append(decades, decade)
	}
	return decades, nil
}

func sourceTitle(source string) string {
	switch strings.ToLower(source) {
	case models.SourceTop:
		return "Top tracks"
	case models.SourceRecent:
		return "Recently played"
	case models.SourceSaved:
		return "Liked songs"
	default:
		return source
	}
}

func containsPlaylist(playlists []models.Playlist, id string) bool {
	for _, p := range playlists {
		if p.ID == id {
			return true
		}
	}
	return false
}
