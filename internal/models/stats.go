package models

// ArtistStat is one row of the artist ranking.
type ArtistStat struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Image      string   `json:"image,omitempty"`
	Genres     []string `json:"genres"`
	Popularity *int     `json:"popularity"`
	Count      int      `json:"count"`
}

// GenreStat is one row of the genre ranking. Percentage is a fraction in [0,1].
type GenreStat struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DecadeStat is one bar of the decade histogram, labelled like "1980s".
type DecadeStat struct {
	Label string `json:"decade"`
	Start int    `json:"start"`
	Count int    `json:"count"`
}

// PopularityBucket is an inclusive popularity range and its track count.
type PopularityBucket struct {
	Label string `json:"range"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

// PopularityStat summarizes popularity over the tracks that report one.
type PopularityStat struct {
	Average   int                `json:"average"`
	Min       int                `json:"min"`
	Max       int                `json:"max"`
	Histogram []PopularityBucket `json:"histogram"`
}

// MoodSummary holds mean audio features and the derived mood label.
type MoodSummary struct {
	Label        string  `json:"dominant_mood"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
}

// StatsBundle groups every aggregate computed over one track collection.
// Popularity and Mood are nil when there was nothing to measure.
type StatsBundle struct {
	TrackCount int             `json:"track_count"`
	Artists    []ArtistStat    `json:"artists"`
	Genres     []GenreStat     `json:"genres"`
	Decades    []DecadeStat    `json:"decades"`
	Popularity *PopularityStat `json:"popularity"`
	Mood       *MoodSummary    `json:"mood"`
}
