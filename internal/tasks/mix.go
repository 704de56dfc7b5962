package tasks

import (
	"math/rand/v2"
	"slices"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// filterDecades keeps tracks released within any of the decades. An empty decade list keeps everything.
// Labels may be start years ("1980") or display labels ("1980s"); labels that do not parse match nothing.
func filterDecades(tracks []models.Track, decades []string) []models.Track {
	if len(decades) == 0 {
		return tracks
	}

	starts := make([]int, 0, len(decades))
	for _, d := range decades {
		if start, ok := models.DecadeStart(models.NormalizeDecade(d)); ok {
			starts = append(starts, start)
		}
	}

	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		year, ok := t.Album.Year()
		if !ok {
			continue
		}
		if slices.ContainsFunc(starts, func(start int) bool { return year >= start && year < start+10 }) {
			out = append(out, t)
		}
	}
	return out
}

// filterPopularity keeps tracks whose popularity lies in r. Tracks without a score are dropped
// whenever a range is given.
func filterPopularity(tracks []models.Track, r *models.Range) []models.Track {
	if r == nil {
		return tracks
	}

	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Popularity != nil && r.Contains(*t.Popularity) {
			out = append(out, t)
		}
	}
	return out
}

// dedupe drops repeated IDs, keeping the first occurrence. Tracks without an ID cannot be
// identified or saved and are dropped too.
func dedupe(tracks []models.Track) []models.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// shuffle permutes tracks in place uniformly at random, then truncates to limit.
func shuffle(tracks []models.Track, rng *rand.Rand, limit int) []models.Track {
	if rng != nil {
		rng.Shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })
	} else {
		rand.Shuffle(len(tracks), func(i, j int) { tracks[i], tracks[j] = tracks[j], tracks[i] })
	}

	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks
}

// tagged copies tracks, filling in source where the track carries none.
func tagged(tracks []models.Track, source string) []models.Track {
	out := make([]models.Track, len(tracks))
	for i, t := range tracks {
		if t.Source == "" {
			t.Source = source
		}
		out[i] = t
	}
	return out
}
