package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
)

const favoriteColumns = "id, sequence, track_json, created_at, updated_at, deleted_at"

// FavoriteRepository implements models.Repository[*models.Favorite].
//
// Each favorite stores a JSON snapshot of the track so it can be folded into a mix offline.
// At most one live favorite exists per catalog track.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new FavoriteRepository with the given database connection
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create inserts a new [models.Favorite] with generated ID and sequence
func (r *FavoriteRepository) Create(fav *models.Favorite) error {
	if err := fav.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "favorites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	snapshot, err := json.Marshal(fav.Track())
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO favorites (id, sequence, track_id, name, artist, track_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	track := fav.Track()
	_, err = r.db.Exec(query,
		id,
		sequence,
		track.ID,
		track.Name,
		track.ArtistNames(),
		string(snapshot),
		fav.CreatedAt(),
		fav.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	fav.SetID(id)
	fav.SetSequence(sequence)
	return nil
}

// Get retrieves a favorite by ID, excluding removed favorites
func (r *FavoriteRepository) Get(id string) (*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves the live favorite for a catalog track
func (r *FavoriteRepository) GetByTrackID(trackID string) (*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE track_id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, trackID))
}

// Update refreshes the stored track snapshot
func (r *FavoriteRepository) Update(fav *models.Favorite) error {
	if err := fav.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	snapshot, err := json.Marshal(fav.Track())
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}

	now := time.Now()
	fav.SetUpdatedAt(now)

	query := `
		UPDATE favorites
		SET name = ?, artist = ?, track_json = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	track := fav.Track()
	result, err := r.db.Exec(query, track.Name, track.ArtistNames(), string(snapshot), now, fav.ID())
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	return expectRow(result, fav.ID())
}

// Delete soft-deletes a favorite by ID
func (r *FavoriteRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE favorites SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	return expectRow(result, id)
}

// List retrieves live favorites in the order they were added.
//
// Supported criteria: "artist" (substring match on artist names) and "limit" (int).
func (r *FavoriteRepository) List(criteria map[string]any) ([]*models.Favorite, error) {
	query := "SELECT " + favoriteColumns + " FROM favorites WHERE deleted_at IS NULL"
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist LIKE ?"
		args = append(args, "%"+artist+"%")
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := []*models.Favorite{}
	for rows.Next() {
		fav, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// Tracks returns the favorite track snapshots in the order they were added, ready for [models.Preferences].
func (r *FavoriteRepository) Tracks() ([]models.Track, error) {
	favorites, err := r.List(nil)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(favorites))
	for _, fav := range favorites {
		tracks = append(tracks, fav.Track())
	}
	return tracks, nil
}

// Toggle adds track as a favorite, or removes it when it already is one.
// added reports which of the two happened.
func (r *FavoriteRepository) Toggle(track models.Track) (added bool, err error) {
	existing, err := r.GetByTrackID(track.ID)
	switch {
	case err == nil:
		return false, r.Delete(existing.ID())
	case !errors.Is(err, shared.ErrFavoriteNotFound):
		return false, err
	}

	if err := r.Create(models.NewFavorite(0, track)); err != nil {
		return false, err
	}
	return true, nil
}

// Clear soft-deletes every live favorite and returns how many were removed.
func (r *FavoriteRepository) Clear() (int, error) {
	result, err := r.db.Exec("UPDATE favorites SET deleted_at = ? WHERE deleted_at IS NULL", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear favorites: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one favorites row from a [sql.Row] or [sql.Rows]
func (r *FavoriteRepository) scan(s scanner) (*models.Favorite, error) {
	var (
		id        string
		sequence  int
		snapshot  string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &snapshot, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	var track models.Track
	if err := json.Unmarshal([]byte(snapshot), &track); err != nil {
		return nil, fmt.Errorf("failed to decode favorite %s: %w", id, err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreFavorite(id, sequence, track, createdAt, updatedAt, deleted), nil
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrFavoriteNotFound, id)
	}
	return nil
}
