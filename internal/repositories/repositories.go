package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/JavierDomi/spotify-explorer/internal/shared"
)

// sequenceTables maps a table to its counter table. Names are never taken from input.
var sequenceTables = map[string]string{
	"favorites": "favorites_sequence",
}

// NextSequence increments and returns the next sequence number for table.
//
// The counter is a single row in "{table}_sequence", created by the table's migration.
// Sequences order favorites by insertion and are never reused after a delete.
func NextSequence(db *sql.DB, table string) (int, error) {
	counter, ok := sequenceTables[table]
	if !ok {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	err := db.QueryRow("UPDATE " + counter + " SET value = value + 1 WHERE id = 1 RETURNING value").Scan(&sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sequence row missing in %s, run 'spex setup database'", counter)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}
	return sequence, nil
}
