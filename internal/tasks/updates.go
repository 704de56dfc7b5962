package tasks

import (
	"fmt"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSources Phase = iota
	FilterTracks
	MixReady
	FetchCollection
	Analyze
	StatsReady
	CreatePlaylist
	WriteReport
)

func (p Phase) String() string {
	switch p {
	case FetchSources:
		return "fetch_sources"
	case FilterTracks:
		return "filter_tracks"
	case MixReady:
		return "mix_ready"
	case FetchCollection:
		return "fetch_collection"
	case Analyze:
		return "analyze"
	case StatsReady:
		return "stats_ready"
	case CreatePlaylist:
		return "create_playlist"
	case WriteReport:
		return "write_report"
	default:
		return ""
	}
}

func fetchSourceUpdate(step, total int, label string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSources,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d tracks", step, total, label, count),
	}
}

func filterUpdate(pool int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Filtering %d candidate tracks...", pool),
	}
}

func mixReadyUpdate(mix []models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MixReady,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Mix ready: %d tracks", len(mix)),
		Data:    mix,
	}
}

func fetchCollectionUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, name),
	}
}

func analyzeUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Analyze,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Analyzing %d tracks...", count),
	}
}

func statsReadyUpdate(bundle *models.StatsBundle) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StatsReady,
		Step:    1,
		Total:   1,
		Message: "Statistics ready",
		Data:    bundle,
	}
}

func createPlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Creating playlist %q with %d tracks...", name, count),
	}
}

func playlistCreatedUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func reportWrittenUpdate(step, total int, name string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, files),
	}
}

func reportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
