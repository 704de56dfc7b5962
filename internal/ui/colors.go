package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

const (
	spotifyGreen = lipgloss.Color("#1DB954")
	brightGreen  = lipgloss.Color("#1ED760")
	alertRed     = lipgloss.Color("#E22134")
	amber        = lipgloss.Color("#FFA42B")
	subdued      = lipgloss.Color("#727272")
)

var styles = struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}{
	title: lipgloss.NewStyle().Foreground(spotifyGreen).Bold(true).MarginBottom(1),
	ok:    lipgloss.NewStyle().Foreground(brightGreen).Bold(true),
	err:   lipgloss.NewStyle().Foreground(alertRed).Bold(true),
	warn:  lipgloss.NewStyle().Foreground(amber),
	help:  lipgloss.NewStyle().Foreground(subdued).Italic(true),
}

// trackDelegate renders mix rows with the selection in Spotify green.
func trackDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(brightGreen).BorderLeftForeground(spotifyGreen)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(spotifyGreen).BorderLeftForeground(spotifyGreen)
	d.Styles.DimmedDesc = d.Styles.DimmedDesc.Foreground(subdued)
	return d
}
