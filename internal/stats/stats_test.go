package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	tu "github.com/JavierDomi/spotify-explorer/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistStats(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by count with first-seen tie break", func(t *testing.T) {
		catalog := tu.NewMockService()
		catalog.Artists["b"] = tu.NewArtist("b", "pop")
		catalog.Artists["a"] = models.Artist{ID: "a", Name: "Alpha", Genres: []string{"rock"}, Popularity: models.IntPtr(80)}

		tracks := []models.Track{
			tu.NewTrack("1", tu.WithArtists("c")),
			tu.NewTrack("2", tu.WithArtists("a")),
			tu.NewTrack("3", tu.WithArtists("b")),
			tu.NewTrack("4", tu.WithArtists("a")),
			tu.NewTrack("5", tu.WithArtists("b")),
			{ID: "6", Name: "No Artist"},
		}

		got, err := ArtistStats(ctx, catalog, tracks)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, 2, got[0].Count)
		assert.Equal(t, "Alpha", got[0].Name)
		assert.Equal(t, []string{"rock"}, got[0].Genres)
		assert.Equal(t, 80, *got[0].Popularity)

		assert.Equal(t, "b", got[1].ID)
		assert.Equal(t, "https://img.example/b", got[1].Image)

		assert.Equal(t, "c", got[2].ID)
		assert.Equal(t, "Name c", got[2].Name, "unresolved artists keep the track's name")
		assert.Empty(t, got[2].Genres)
		assert.Nil(t, got[2].Popularity)

		batches := catalog.Batches["BatchArtistDetails"]
		require.Len(t, batches, 1, "details are resolved in one batch")
		assert.Equal(t, []string{"c", "a", "b"}, batches[0])
	})

	t.Run("empty input makes no lookup", func(t *testing.T) {
		catalog := tu.NewMockService()
		got, err := ArtistStats(ctx, catalog, nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Zero(t, catalog.CallCount("BatchArtistDetails"))
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		catalog := tu.NewMockService()
		catalog.Errors["BatchArtistDetails"] = errors.New("boom")

		_, err := ArtistStats(ctx, catalog, []models.Track{tu.NewTrack("1")})
		require.Error(t, err)
	})
}

func TestGenreStats(t *testing.T) {
	t.Run("percentage uses tag occurrences", func(t *testing.T) {
		artists := map[string]models.Artist{
			"r": tu.NewArtist("r", "rock"),
			"p": tu.NewArtist("p", "rock", "pop"),
		}
		tracks := []models.Track{
			tu.NewTrack("1", tu.WithArtists("r")),
			tu.NewTrack("2", tu.WithArtists("r")),
			tu.NewTrack("3", tu.WithArtists("p")),
		}

		got := GenreStats(tracks, artists)
		require.Len(t, got, 2)
		assert.Equal(t, models.GenreStat{Name: "rock", Count: 3, Percentage: 0.75}, got[0])
		assert.Equal(t, models.GenreStat{Name: "pop", Count: 1, Percentage: 0.25}, got[1])
	})

	t.Run("counts every artist of a track", func(t *testing.T) {
		artists := map[string]models.Artist{
			"x": tu.NewArtist("x", "jazz"),
			"y": tu.NewArtist("y", "jazz"),
		}
		got := GenreStats([]models.Track{tu.NewTrack("1", tu.WithArtists("x", "y"))}, artists)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Count)
	})

	t.Run("groups case-insensitively keeping first casing", func(t *testing.T) {
		artists := map[string]models.Artist{
			"a": tu.NewArtist("a", "Hip Hop"),
			"b": tu.NewArtist("b", "hip hop"),
		}
		tracks := []models.Track{
			tu.NewTrack("1", tu.WithArtists("a")),
			tu.NewTrack("2", tu.WithArtists("b")),
		}

		got := GenreStats(tracks, artists)
		require.Len(t, got, 1)
		assert.Equal(t, "Hip Hop", got[0].Name)
		assert.Equal(t, 2, got[0].Count)
		assert.InDelta(t, 1.0, got[0].Percentage, 1e-9)
	})

	t.Run("keeps top fifteen", func(t *testing.T) {
		genres := make([]string, 0, 20)
		for i := range 20 {
			genres = append(genres, string(rune('a'+i)))
		}
		artists := map[string]models.Artist{"a": tu.NewArtist("a", genres...)}

		got := GenreStats([]models.Track{tu.NewTrack("1", tu.WithArtists("a"))}, artists)
		require.Len(t, got, MaxGenres)
		assert.Equal(t, "a", got[0].Name, "ties keep first-seen order")
	})

	t.Run("empty input", func(t *testing.T) {
		got := GenreStats(nil, nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestDecadeStats(t *testing.T) {
	tracks := []models.Track{
		tu.NewTrack("1", tu.WithRelease("1999-12-31")),
		tu.NewTrack("2", tu.WithRelease("1987")),
		tu.NewTrack("3", tu.WithRelease("1980-05")),
		tu.NewTrack("4", tu.WithRelease("")),
		tu.NewTrack("5", tu.WithRelease("unknown")),
		tu.NewTrack("6", tu.WithRelease("2001-01-01")),
	}

	got := DecadeStats(tracks)
	assert.Equal(t, []models.DecadeStat{
		{Label: "1980s", Start: 1980, Count: 2},
		{Label: "1990s", Start: 1990, Count: 1},
		{Label: "2000s", Start: 2000, Count: 1},
	}, got)

	assert.Empty(t, DecadeStats(nil))
}

func TestPopularityStats(t *testing.T) {
	t.Run("nil without scores", func(t *testing.T) {
		assert.Nil(t, PopularityStats(nil))
		assert.Nil(t, PopularityStats([]models.Track{tu.NewTrack("1")}))
	})

	t.Run("bucket boundaries", func(t *testing.T) {
		tracks := []models.Track{
			tu.NewTrack("1", tu.WithPopularity(20)),
			tu.NewTrack("2", tu.WithPopularity(21)),
			tu.NewTrack("3", tu.WithPopularity(0)),
			tu.NewTrack("4", tu.WithPopularity(100)),
			tu.NewTrack("5"),
		}

		got := PopularityStats(tracks)
		require.NotNil(t, got)
		require.Len(t, got.Histogram, 5)

		assert.Equal(t, "0–20", got.Histogram[0].Label)
		assert.Equal(t, 2, got.Histogram[0].Count)
		assert.Equal(t, 1, got.Histogram[1].Count)
		assert.Equal(t, 0, got.Histogram[2].Count)
		assert.Equal(t, 0, got.Histogram[3].Count)
		assert.Equal(t, 1, got.Histogram[4].Count)

		assert.Equal(t, 0, got.Min)
		assert.Equal(t, 100, got.Max)
		assert.Equal(t, 35, got.Average, "141/4 = 35.25")
	})

	t.Run("average rounds half up", func(t *testing.T) {
		got := PopularityStats([]models.Track{
			tu.NewTrack("1", tu.WithPopularity(50)),
			tu.NewTrack("2", tu.WithPopularity(51)),
		})
		require.NotNil(t, got)
		assert.Equal(t, 51, got.Average)
	})
}

func TestClassifyMood(t *testing.T) {
	tests := []struct {
		energy, valence float64
		want            string
	}{
		{0.5, 0.5, MoodUpbeat},
		{0.39, 0.39, MoodChill},
		{0.45, 0.45, MoodRelaxed},
		{0.2, 0.9, MoodRelaxed},
		{0.9, 0.1, MoodIntense},
		{0.5, 0.49, MoodIntense},
		{0.45, 0.3, MoodUnknown},
		{0.3, 0.4, MoodRelaxed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMood(tt.energy, tt.valence), "energy=%v valence=%v", tt.energy, tt.valence)
	}
}

func TestMoodSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("averages resolved features", func(t *testing.T) {
		catalog := tu.NewMockService()
		catalog.Features["1"] = models.AudioFeature{ID: "1", Energy: 0.8, Danceability: 0.6, Valence: 0.7}
		catalog.Features["2"] = models.AudioFeature{ID: "2", Energy: 0.6, Danceability: 0.4, Valence: 0.5}

		got, err := MoodSummary(ctx, catalog, []models.Track{tu.NewTrack("1"), tu.NewTrack("2"), tu.NewTrack("3")})
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.InDelta(t, 0.7, got.Energy, 1e-9)
		assert.InDelta(t, 0.5, got.Danceability, 1e-9)
		assert.InDelta(t, 0.6, got.Valence, 1e-9)
		assert.Equal(t, MoodUpbeat, got.Label)
	})

	t.Run("nil when nothing resolves", func(t *testing.T) {
		catalog := tu.NewMockService()

		got, err := MoodSummary(ctx, catalog, []models.Track{tu.NewTrack("1")})
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = MoodSummary(ctx, catalog, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Equal(t, 1, catalog.CallCount("BatchAudioFeatures"), "empty input makes no lookup")
	})
}

func TestBundle(t *testing.T) {
	ctx := context.Background()

	catalog := tu.NewMockService()
	catalog.Artists["r"] = tu.NewArtist("r", "rock")
	catalog.Features["1"] = models.AudioFeature{ID: "1", Energy: 0.2, Danceability: 0.2, Valence: 0.2}

	tracks := []models.Track{
		tu.NewTrack("1", tu.WithArtists("r"), tu.WithRelease("1984"), tu.WithPopularity(60)),
		tu.NewTrack("2", tu.WithArtists("r"), tu.WithRelease("1991"), tu.WithPopularity(30)),
	}

	first, err := Bundle(ctx, catalog, tracks)
	require.NoError(t, err)

	assert.Equal(t, 2, first.TrackCount)
	require.Len(t, first.Artists, 1)
	assert.Equal(t, 2, first.Artists[0].Count)
	require.Len(t, first.Genres, 1)
	assert.Equal(t, "rock", first.Genres[0].Name)
	assert.Len(t, first.Decades, 2)
	require.NotNil(t, first.Popularity)
	assert.Equal(t, 45, first.Popularity.Average)
	require.NotNil(t, first.Mood)
	assert.Equal(t, MoodChill, first.Mood.Label)

	second, err := Bundle(ctx, catalog, tracks)
	require.NoError(t, err)
	assert.Equal(t, first, second, "stats are deterministic")

	t.Run("empty collection", func(t *testing.T) {
		got, err := Bundle(ctx, catalog, nil)
		require.NoError(t, err)
		assert.Zero(t, got.TrackCount)
		assert.Empty(t, got.Artists)
		assert.Empty(t, got.Genres)
		assert.Empty(t, got.Decades)
		assert.Nil(t, got.Popularity)
		assert.Nil(t, got.Mood)
	})

	t.Run("without lookup", func(t *testing.T) {
		got, err := Bundle(ctx, nil, tracks)
		require.NoError(t, err)
		require.Len(t, got.Artists, 1)
		assert.Empty(t, got.Genres)
		assert.Nil(t, got.Mood)
	})

	t.Run("lookup failure", func(t *testing.T) {
		failing := tu.NewMockService()
		failing.Errors["BatchAudioFeatures"] = errors.New("features down")

		_, err := Bundle(ctx, failing, tracks)
		require.Error(t, err)
	})
}
