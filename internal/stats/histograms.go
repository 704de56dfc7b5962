package stats

import (
	"math"
	"slices"
	"strconv"

	"github.com/JavierDomi/spotify-explorer/internal/models"
)

// popularityBuckets are inclusive on both ends.
var popularityBuckets = []struct {
	label    string
	min, max int
}{
	{"0–20", 0, 20},
	{"21–40", 21, 40},
	{"41–60", 41, 60},
	{"61–80", 61, 80},
	{"81–100", 81, 100},
}

// DecadeStats buckets tracks by release decade, oldest first.
// Tracks without a usable release date are skipped.
func DecadeStats(tracks []models.Track) []models.DecadeStat {
	counts := map[int]int{}
	var starts []int

	for _, t := range tracks {
		year, ok := t.Album.Year()
		if !ok {
			continue
		}
		start := year / 10 * 10
		if _, seen := counts[start]; !seen {
			starts = append(starts, start)
		}
		counts[start]++
	}

	slices.Sort(starts)

	out := make([]models.DecadeStat, 0, len(starts))
	for _, start := range starts {
		out = append(out, models.DecadeStat{
			Label: strconv.Itoa(start) + "s",
			Start: start,
			Count: counts[start],
		})
	}
	return out
}

// PopularityStats summarizes the tracks that report a popularity score.
// It returns nil when none do.
func PopularityStats(tracks []models.Track) *models.PopularityStat {
	var values []int
	for _, t := range tracks {
		if t.Popularity != nil {
			values = append(values, *t.Popularity)
		}
	}
	if len(values) == 0 {
		return nil
	}

	stat := &models.PopularityStat{
		Min:       values[0],
		Max:       values[0],
		Histogram: make([]models.PopularityBucket, len(popularityBuckets)),
	}
	for i, b := range popularityBuckets {
		stat.Histogram[i] = models.PopularityBucket{Label: b.label, Min: b.min, Max: b.max}
	}

	sum := 0
	for _, v := range values {
		sum += v
		stat.Min = min(stat.Min, v)
		stat.Max = max(stat.Max, v)

		for i, b := range popularityBuckets {
			if v >= b.min && v <= b.max {
				stat.Histogram[i].Count++
				break
			}
		}
	}

	// math.Round rounds half away from zero
	stat.Average = int(math.Round(float64(sum) / float64(len(values))))
	return stat
}
