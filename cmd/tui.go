package main

import (
	"context"
	"fmt"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/JavierDomi/spotify-explorer/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

const defaultTUILog = "./tmp/spex-tui.log"

// TUI launches the interactive mixer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	logPath := r.config.Log.File
	if logPath == "" {
		logPath = defaultTUILog
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	var prefs models.Preferences
	err = r.withReauth(ctx, func() error {
		var err error
		prefs, err = r.preferences(ctx, cmd)
		return err
	})
	if err != nil {
		return err
	}

	opts := ui.Options{
		SaveName:        cmd.String("save-name"),
		SaveDescription: r.config.Mixer.SaveDescription,
	}
	if opts.SaveName == "" {
		opts.SaveName = r.config.Mixer.SaveName
	}
	if store, err := r.favoriteStore(); err != nil {
		fileLogger.Warn("favorites disabled", "error", err)
	} else {
		opts.Favorites = store
	}

	model := ui.NewModel(ctx, r.engine, prefs, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
