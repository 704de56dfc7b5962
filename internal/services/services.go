package services

import (
	"context"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// Catalog provides the track sources the mixer fans out to.
type Catalog interface {
	// TopTracksForArtist returns the artist's top tracks in the configured market.
	TopTracksForArtist(ctx context.Context, artistID string) ([]models.Track, error)

	// SearchTracksByGenre returns a single page of tracks tagged with genre.
	// A limit <= 0 uses the default page size of 20.
	SearchTracksByGenre(ctx context.Context, genre string, limit int) ([]models.Track, error)
}

// ArtistLookup resolves artist details in batches.
type ArtistLookup interface {
	BatchArtistDetails(ctx context.Context, artistIDs []string) ([]models.Artist, error)
}

// FeatureLookup resolves audio features in batches. Tracks without features are omitted.
type FeatureLookup interface {
	BatchAudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeature, error)
}

// PlaylistWriter persists a track list as a new private playlist.
type PlaylistWriter interface {
	CreatePlaylistWithTracks(ctx context.Context, name, description string, trackURIs []string) (*models.Playlist, error)
}

// Library reads the signed-in user's own collections.
type Library interface {
	UserProfile(ctx context.Context) (*models.User, error)
	UserTopTracks(ctx context.Context, timeRange string, limit int) ([]models.Track, error)
	UserTopArtists(ctx context.Context, timeRange string, limit int) ([]models.Artist, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]models.Track, error)
	SavedTracks(ctx context.Context, limit int) ([]models.Track, error)
	UserPlaylists(ctx context.Context) ([]models.Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)
}

// Searcher looks up artists and tracks by free text, used to resolve CLI selections.
type Searcher interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]models.Artist, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)
}

// Service is the full catalog client surface.
type Service interface {
	Catalog
	ArtistLookup
	FeatureLookup
	PlaylistWriter
	Library
	Searcher

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
