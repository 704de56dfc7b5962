package stats

import (
	"context"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/services"
	"golang.org/x/sync/errgroup"
)

// Lookup is the catalog access the full bundle needs.
type Lookup interface {
	services.ArtistLookup
	services.FeatureLookup
}

// Bundle computes every aggregate for tracks. The artist ranking (and the genre ranking
// that depends on its details) runs alongside the mood lookup; the remaining stats are pure.
func Bundle(ctx context.Context, lookup Lookup, tracks []models.Track) (*models.StatsBundle, error) {
	bundle := &models.StatsBundle{
		TrackCount: len(tracks),
		Decades:    DecadeStats(tracks),
		Popularity: PopularityStats(tracks),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		artists, err := ArtistStats(gctx, lookup, tracks)
		if err != nil {
			return err
		}
		bundle.Artists = artists
		bundle.Genres = GenreStats(tracks, ArtistsByID(artists))
		return nil
	})

	g.Go(func() error {
		mood, err := MoodSummary(gctx, lookup, tracks)
		if err != nil {
			return err
		}
		bundle.Mood = mood
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}
