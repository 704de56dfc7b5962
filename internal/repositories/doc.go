// Package repositories implements SQLite persistence for locally stored entities.
//
// Each repository implements [models.Repository] with soft deletes via deleted_at timestamps,
// excluding deleted records from queries by default.
//
// Key Implementations:
//   - [FavoriteRepository] : Favorites pinned from the CLI or TUI, stored as track snapshots
//
// Sequence numbers provide stable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
