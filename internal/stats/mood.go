package stats

import (
	"context"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/services"
)

// Mood labels produced by [ClassifyMood].
const (
	MoodChill   = "chill/melancholic"
	MoodRelaxed = "relaxed"
	MoodIntense = "intense"
	MoodUpbeat  = "upbeat/festive"
	MoodUnknown = "unknown"
)

// ClassifyMood maps mean energy and valence to a mood label.
// The low-energy thresholds (0.4) and high-energy thresholds (0.5) differ, so some
// combinations, such as energy 0.45 with valence 0.3, stay unknown.
func ClassifyMood(energy, valence float64) string {
	switch {
	case energy < 0.4 && valence < 0.4:
		return MoodChill
	case energy < 0.5 && valence >= 0.4:
		return MoodRelaxed
	case energy >= 0.5 && valence < 0.5:
		return MoodIntense
	case energy >= 0.5 && valence >= 0.5:
		return MoodUpbeat
	default:
		return MoodUnknown
	}
}

// Summarize averages the given features. It returns nil for an empty slice.
func Summarize(features []models.AudioFeature) *models.MoodSummary {
	if len(features) == 0 {
		return nil
	}

	var energy, dance, valence float64
	for _, f := range features {
		energy += f.Energy
		dance += f.Danceability
		valence += f.Valence
	}

	n := float64(len(features))
	summary := &models.MoodSummary{
		Energy:       energy / n,
		Danceability: dance / n,
		Valence:      valence / n,
	}
	summary.Label = ClassifyMood(summary.Energy, summary.Valence)
	return summary
}

// MoodSummary fetches audio features for the tracks and summarizes them.
// It returns nil without error when there are no track IDs, no lookup, or no features came back.
func MoodSummary(ctx context.Context, lookup services.FeatureLookup, tracks []models.Track) (*models.MoodSummary, error) {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 || lookup == nil {
		return nil, nil
	}

	features, err := lookup.BatchAudioFeatures(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Summarize(features), nil
}
