// submodule cmd contains command definitions
package main

import (
	"fmt"

	"github.com/JavierDomi/spotify-explorer/internal/formatter"
	"github.com/urfave/cli/v3"
)

// selectionFlags are shared by every command that builds a mix.
func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Artist ID to pull top tracks from (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "artist-search",
			Usage: "Artist name, resolved to the best search match (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "track",
			Aliases: []string{"t"},
			Usage:   "Track ID to include (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "track-search",
			Usage: "Track name, resolved to the best search match (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "genre",
			Aliases: []string{"g"},
			Usage:   "Genre to search (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "decade",
			Aliases: []string{"d"},
			Usage:   "Keep tracks released in this decade, e.g. 1980 or 1980s (repeatable)",
		},
		&cli.StringFlag{
			Name:  "popularity",
			Usage: "Inclusive popularity range, e.g. 40-60",
		},
		&cli.BoolFlag{
			Name:  "favorites",
			Usage: "Include stored favorites",
		},
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Output format (%v)", formatter.Formats),
		Value:   formatter.FormatText,
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func timeRangeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "time-range",
		Usage: "Top items time range: short, medium or long",
		Value: "medium",
	}
}

func limitFlag(value int) *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of items",
		Value:   value,
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	configFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   r.configPathOrDefault(),
		}
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write config.toml from the built-in template",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the favorites database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with Spotify using OAuth2",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current sign-in state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget stored tokens",
				Action: r.AuthLogout,
			},
		},
	}
}

// mixCommand handles mix generation and statistics
func mixCommand(r *Runner) *cli.Command {
	generateFlags := append(selectionFlags(),
		formatFlag(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the report to this path instead of stdout",
		},
		&cli.BoolFlag{
			Name:    "stats",
			Aliases: []string{"s"},
			Usage:   "Include mix statistics",
		},
		&cli.StringFlag{
			Name:  "save",
			Usage: "Save the mix as a private playlist with this name",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Description for the saved playlist",
		},
	)

	return &cli.Command{
		Name:  "mix",
		Usage: "Generate mixes and statistics",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate a mix from artists, tracks, genres and favorites",
				Flags:  generateFlags,
				Action: r.MixGenerate,
			},
			{
				Name:  "stats",
				Usage: "Compute statistics for a playlist or library collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist ID",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Library source: top, recent or saved",
					},
					timeRangeFlag(),
					limitFlag(50),
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to this path instead of stdout",
					},
				},
				Action: r.MixStats,
			},
			{
				Name:  "report",
				Usage: "Write statistics reports for many playlists",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist ID (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Report on every playlist in the library",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Report format (%v)", formatter.Formats),
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: spex_reports_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent report workers (max 8)",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Playlist fetches per second",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "covers",
						Usage: "Download cover images for markdown reports",
					},
				},
				Action: r.MixReport,
			},
		},
	}
}

// favoritesCommand manages the local favorites store
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite tracks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorites",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only favorites whose artists match",
					},
					limitFlag(0),
				),
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Add a track by ID or search query",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a favorite by track ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "track"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:   "clear",
				Usage:  "Remove every favorite",
				Action: r.FavoritesClear,
			},
		},
	}
}

// libraryCommand lists the signed-in user's collections
func libraryCommand(r *Runner) *cli.Command {
	trackFlags := func() []cli.Flag {
		return append(outputFlags(), timeRangeFlag(), limitFlag(20))
	}

	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse your Spotify library",
		Commands: []*cli.Command{
			{
				Name:   "top",
				Usage:  "Your top tracks",
				Flags:  trackFlags(),
				Action: r.LibraryTracks,
			},
			{
				Name:   "recent",
				Usage:  "Recently played tracks",
				Flags:  trackFlags(),
				Action: r.LibraryTracks,
			},
			{
				Name:   "saved",
				Usage:  "Liked songs (limit 0 fetches all)",
				Flags:  trackFlags(),
				Action: r.LibraryTracks,
			},
			{
				Name:   "artists",
				Usage:  "Your top artists",
				Flags:  trackFlags(),
				Action: r.LibraryArtists,
			},
			{
				Name:   "playlists",
				Usage:  "Your playlists",
				Flags:  append(outputFlags(), limitFlag(0)),
				Action: r.LibraryPlaylists,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive mixer.
func tuiCommand(r *Runner) *cli.Command {
	flags := selectionFlags()
	for i, f := range flags {
		if bf, ok := f.(*cli.BoolFlag); ok && bf.Name == "favorites" {
			flags[i] = &cli.BoolFlag{Name: "favorites", Usage: bf.Usage, Value: true}
		}
	}

	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive mixer",
		Flags: append(flags, &cli.StringFlag{
			Name:  "save-name",
			Usage: "Name used when saving the mix",
		}),
		Action: r.TUI,
	}
}
