// Package models defines the typed records shared by the catalog client, the mixer and the statistics engine.
//
// The package contains three categories of types:
//
// 1. Catalog records parsed from the Web API at the client boundary
//   - [Track] : Track with ordered artists (the first is primary), album, popularity and provenance tag
//   - [Artist] : Artist with genre labels and optional popularity
//   - [Album] : Release date kept verbatim; [Album.Year] tolerates partial and malformed dates
//   - [AudioFeature] : Energy, danceability and valence for one track
//
// 2. Mixer input and derived views
//   - [Preferences] : What to mix (artists, tracks, genres, decades, popularity range, mood, favorites)
//   - [StatsBundle] : Artist, genre, decade, popularity and mood aggregates over one collection
//
// 3. Persistent entities
//   - [Favorite] : A locally pinned track, stored by the favorites repository
//
// Persistent entities implement [Model]; [Repository] defines the CRUD contract for their stores.
package models
