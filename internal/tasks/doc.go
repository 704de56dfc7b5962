// Package tasks orchestrates the taste mixer with real-time progress reporting.
//
// # Core Operations
//
// The [Mixer] interface defines three operations:
//
//  1. [Mixer.Generate] : Preferences → bounded mix
//     - Seeds the pool with explicit tracks, then favorites
//     - Fetches top tracks per artist and a genre search per genre concurrently
//     - Applies decade and popularity filters, drops repeated IDs, shuffles and truncates
//     - Fails as a whole when any fetch fails
//
//  2. [Mixer.Analyze] : Statistics over any track collection (see package stats)
//
//  3. [Mixer.Save] : Writes tracks to a new private playlist
//
// [MixEngine.BulkAnalyze] runs Analyze over many existing playlists with a worker pool and
// writes one report per playlist plus a manifest.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
