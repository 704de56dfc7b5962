package ui

import (
	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/tasks"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// seq identifies the generation a message belongs to; messages from a superseded generation are dropped.
type Msg struct {
	kind MsgKind
	seq  int
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMixGenerated MsgKind = iota
	MsgStatsReady
	MsgProgressUpdate
	MsgPlaylistSaved
	MsgFavoriteToggled
)

type mixResult struct {
	mix []models.Track
	err error
}

type statsResult struct {
	stats *models.StatsBundle
	err   error
}

type saveResult struct {
	playlist *models.Playlist
	err      error
}

type favoriteResult struct {
	track     models.Track
	added     bool
	favorites []models.Track
	err       error
}

// mixGeneratedMsg is the constructor for [MsgMixGenerated]
func mixGeneratedMsg(seq int, mix []models.Track, err error) Msg {
	return Msg{kind: MsgMixGenerated, seq: seq, data: mixResult{mix, err}}
}

// statsReadyMsg is the constructor for [MsgStatsReady]
func statsReadyMsg(seq int, stats *models.StatsBundle, err error) Msg {
	return Msg{kind: MsgStatsReady, seq: seq, data: statsResult{stats, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(seq int, update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, seq: seq, data: update}
}

// playlistSavedMsg is the constructor for [MsgPlaylistSaved]
func playlistSavedMsg(playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistSaved, data: saveResult{playlist, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(res favoriteResult) Msg {
	return Msg{kind: MsgFavoriteToggled, data: res}
}
