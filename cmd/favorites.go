package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList prints the stored favorites in the order they were added.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.favoriteStore()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if artist := strings.TrimSpace(cmd.String("artist")); artist != "" {
		criteria["artist"] = artist
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = limit
	}

	favorites, err := store.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}

	if cmd.Bool("json") {
		tracks := make([]models.Track, 0, len(favorites))
		for _, f := range favorites {
			tracks = append(tracks, f.Track())
		}
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	if len(favorites) == 0 {
		return r.writePlain("No favorites yet. Add one with 'spex favorites add TRACK_ID'\n")
	}

	r.writePlain("Found %d favorites:\n\n", len(favorites))
	for i, f := range favorites {
		t := f.Track()
		r.writePlain("%d. %s - %s\n", i+1, t.ArtistNames(), t.Name)
		r.writePlain("   ID: %s\n", t.ID)
		r.writePlain("   Added: %s\n", f.CreatedAt().Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// FavoritesAdd resolves a track by ID or search query and stores it.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("track"))
	if query == "" {
		return fmt.Errorf("%w: track ID or search query", shared.ErrMissingArgument)
	}
	if err := r.requireSpotify(); err != nil {
		return err
	}

	store, err := r.favoriteStore()
	if err != nil {
		return err
	}

	var track models.Track
	err = r.withReauth(ctx, func() error {
		tracks, err := r.spotify.SearchTracks(ctx, query, 1)
		if err != nil {
			return err
		}
		if len(tracks) == 0 {
			return fmt.Errorf("%w: no track matched %q", shared.ErrInvalidArgument, query)
		}
		track = tracks[0]
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := store.GetByTrackID(track.ID); err == nil {
		return r.writePlain("%s - %s is already a favorite\n", track.ArtistNames(), track.Name)
	} else if !errors.Is(err, shared.ErrFavoriteNotFound) {
		return err
	}

	if _, err := store.Toggle(track); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	r.logger.Info("favorite added", "track", track.ID)
	return r.writePlain("★ Added %s - %s\n", track.ArtistNames(), track.Name)
}

// FavoritesRemove deletes the favorite for a track ID.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	trackID := strings.TrimSpace(cmd.StringArg("track"))
	if trackID == "" {
		return fmt.Errorf("%w: track ID", shared.ErrMissingArgument)
	}

	store, err := r.favoriteStore()
	if err != nil {
		return err
	}

	fav, err := store.GetByTrackID(trackID)
	if err != nil {
		return err
	}
	if err := store.Delete(fav.ID()); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return r.writePlain("Removed %s\n", fav.Track().Name)
}

// FavoritesClear removes every favorite.
func (r *Runner) FavoritesClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.favoriteStore()
	if err != nil {
		return err
	}

	n, err := store.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return r.writePlain("Removed %d favorites\n", n)
}
