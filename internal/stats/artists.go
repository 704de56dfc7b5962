package stats

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/services"
)

// MaxGenres bounds the genre ranking.
const MaxGenres = 15

// ArtistStats ranks primary artists by how many tracks they lead, most first.
// Ties keep the order in which artists first appear. Details come from one batched lookup;
// a nil lookup or an artist missing from its response leaves only the name from the track.
func ArtistStats(ctx context.Context, lookup services.ArtistLookup, tracks []models.Track) ([]models.ArtistStat, error) {
	var order []string
	byID := map[string]*models.ArtistStat{}

	for _, t := range tracks {
		artist, ok := t.PrimaryArtist()
		if !ok {
			continue
		}

		stat, seen := byID[artist.ID]
		if !seen {
			stat = &models.ArtistStat{ID: artist.ID, Name: artist.Name, Genres: []string{}}
			byID[artist.ID] = stat
			order = append(order, artist.ID)
		}
		stat.Count++
	}

	if len(order) == 0 {
		return []models.ArtistStat{}, nil
	}

	if lookup != nil {
		details, err := lookup.BatchArtistDetails(ctx, order)
		if err != nil {
			return nil, err
		}
		for _, a := range details {
			stat, ok := byID[a.ID]
			if !ok {
				continue
			}
			if a.Name != "" {
				stat.Name = a.Name
			}
			if a.Genres != nil {
				stat.Genres = a.Genres
			}
			stat.Popularity = a.Popularity
			stat.Image = a.ImageURL()
		}
	}

	out := make([]models.ArtistStat, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}

	slices.SortStableFunc(out, func(a, b models.ArtistStat) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out, nil
}

// ArtistsByID indexes ranked artists for [GenreStats].
func ArtistsByID(stats []models.ArtistStat) map[string]models.Artist {
	out := make(map[string]models.Artist, len(stats))
	for _, s := range stats {
		out[s.ID] = models.Artist{ID: s.ID, Name: s.Name, Genres: s.Genres, Popularity: s.Popularity}
	}
	return out
}

// GenreStats counts genre tags over every artist of every track, using artistsByID for the tags.
// Labels are grouped case-insensitively and displayed with their first-seen casing.
// Percentages are relative to the total number of tag occurrences. At most [MaxGenres] rows are returned.
func GenreStats(tracks []models.Track, artistsByID map[string]models.Artist) []models.GenreStat {
	var order []string
	counts := map[string]int{}
	display := map[string]string{}
	total := 0

	for _, t := range tracks {
		for _, a := range t.Artists {
			artist, ok := artistsByID[a.ID]
			if !ok {
				continue
			}
			for _, g := range artist.Genres {
				g = strings.TrimSpace(g)
				if g == "" {
					continue
				}
				key := strings.ToLower(g)
				if _, seen := counts[key]; !seen {
					order = append(order, key)
					display[key] = g
				}
				counts[key]++
				total++
			}
		}
	}

	out := make([]models.GenreStat, 0, len(order))
	for _, key := range order {
		out = append(out, models.GenreStat{
			Name:       display[key],
			Count:      counts[key],
			Percentage: float64(counts[key]) / float64(total),
		})
	}

	slices.SortStableFunc(out, func(a, b models.GenreStat) int {
		return cmp.Compare(b.Count, a.Count)
	})

	if len(out) > MaxGenres {
		out = out[:MaxGenres]
	}
	return out
}
