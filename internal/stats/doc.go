// Package stats derives descriptive aggregates from a track collection: artist and genre rankings,
// decade and popularity histograms, and a mood summary built from audio features.
//
// Every function is deterministic for a fixed input. Only [ArtistStats] and [MoodSummary] reach the
// catalog, each with a single batched lookup; the rest are pure.
package stats
