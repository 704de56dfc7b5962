package tasks

import (
	"math/rand/v2"
	"testing"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	tu "github.com/JavierDomi/spotify-explorer/internal/testing"
	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tracks := []models.Track{
		tu.NewTrack("a", tu.WithSource("first")),
		{Name: "no id"},
		tu.NewTrack("b"),
		tu.NewTrack("a", tu.WithSource("second")),
	}

	got := dedupe(tracks)
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Equal(t, "first", got[0].Source)
	assert.Len(t, tracks, 4)
}

func TestShuffle(t *testing.T) {
	t.Run("permutes and truncates", func(t *testing.T) {
		tracks := tu.Tracks("t", 10)
		got := shuffle(tracks, rand.New(rand.NewPCG(3, 4)), 4)
		assert.Len(t, got, 4)
		assert.Subset(t, ids(tu.Tracks("t", 10)), ids(got))
	})

	t.Run("global source", func(t *testing.T) {
		got := shuffle(tu.Tracks("t", 5), nil, 30)
		assert.ElementsMatch(t, ids(tu.Tracks("t", 5)), ids(got))
	})
}

func TestFilterDecades(t *testing.T) {
	tracks := []models.Track{
		tu.NewTrack("1979", tu.WithRelease("1979-12-31")),
		tu.NewTrack("1980", tu.WithRelease("1980")),
		tu.NewTrack("1989", tu.WithRelease("1989-07")),
		tu.NewTrack("1990", tu.WithRelease("1990-01-01")),
		tu.NewTrack("bad", tu.WithRelease("19x0")),
	}

	assert.Equal(t, []string{"1980", "1989"}, ids(filterDecades(tracks, []string{"1980"})))
	assert.Equal(t, ids(tracks), ids(filterDecades(tracks, nil)))
}

func TestTagged(t *testing.T) {
	tracks := []models.Track{tu.NewTrack("a"), tu.NewTrack("b", tu.WithSource(models.SourceTop))}

	got := tagged(tracks, models.SourceFavorite)
	assert.Equal(t, models.SourceFavorite, got[0].Source)
	assert.Equal(t, models.SourceTop, got[1].Source)
	assert.Empty(t, tracks[0].Source)
}
