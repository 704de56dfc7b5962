package models

import (
	"errors"
	"time"
)

var _ Model = (*Favorite)(nil)

// Favorite is a track the user pinned locally so it can be folded into every mix.
type Favorite struct {
	id        string
	sequence  int
	track     Track
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewFavorite creates an unsaved favorite for track.
func NewFavorite(sequence int, track Track) *Favorite {
	now := time.Now()
	return &Favorite{
		sequence:  sequence,
		track:     track,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreFavorite rebuilds a favorite from stored columns.
func RestoreFavorite(id string, sequence int, track Track, createdAt, updatedAt time.Time, deletedAt *time.Time) *Favorite {
	return &Favorite{
		id:        id,
		sequence:  sequence,
		track:     track,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (f *Favorite) ID() string               { return f.id }
func (f *Favorite) SetID(id string)          { f.id = id }
func (f *Favorite) Sequence() int            { return f.sequence }
func (f *Favorite) SetSequence(seq int)      { f.sequence = seq }
func (f *Favorite) Track() Track             { return f.track }
func (f *Favorite) TrackID() string          { return f.track.ID }
func (f *Favorite) CreatedAt() time.Time     { return f.createdAt }
func (f *Favorite) UpdatedAt() time.Time     { return f.updatedAt }
func (f *Favorite) SetUpdatedAt(t time.Time) { f.updatedAt = t }
func (f *Favorite) DeletedAt() *time.Time    { return f.deletedAt }

// Validate requires the catalog identifier and a display name.
func (f *Favorite) Validate() error {
	if f.track.ID == "" {
		return errors.New("favorite track id is required")
	}
	if f.track.Name == "" {
		return errors.New("favorite track name is required")
	}
	return nil
}
