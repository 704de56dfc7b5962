package main

import (
	"context"
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/urfave/cli/v3"
)

// LibraryTracks lists one of the user's track collections, chosen by the subcommand name.
func (r *Runner) LibraryTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	source := cmd.Name
	var tracks []models.Track
	err := r.withReauth(ctx, func() error {
		var err error
		tracks, err = r.loadSource(ctx, source, cmd.String("time-range"), cmd.Int("limit"))
		return err
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("%s: %d tracks\n\n", sourceTitle(source), len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, t.ArtistNames(), t.Name)
		r.writePlain("   ID: %s  [%s]\n", t.ID, t.Source)
	}
	return nil
}

// LibraryArtists lists the user's top artists with their genres.
func (r *Runner) LibraryArtists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	var artists []models.Artist
	err := r.withReauth(ctx, func() error {
		var err error
		artists, err = r.spotify.UserTopArtists(ctx, cmd.String("time-range"), cmd.Int("limit"))
		return err
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}

	r.writePlain("Top artists: %d\n\n", len(artists))
	for i, a := range artists {
		r.writePlain("%d. %s\n", i+1, a.Name)
		r.writePlain("   ID: %s\n", a.ID)
		if len(a.Genres) > 0 {
			r.writePlain("   Genres: %s\n", strings.Join(a.Genres, ", "))
		}
	}
	return nil
}

// LibraryPlaylists lists the playlists the user owns or follows.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	var playlists []models.Playlist
	err := r.withReauth(ctx, func() error {
		var err error
		playlists, err = r.spotify.UserPlaylists(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if limit := cmd.Int("limit"); limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}
	return nil
}
