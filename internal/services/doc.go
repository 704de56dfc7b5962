// Package services defines the catalog client interfaces and implements them against the Spotify Web API.
//
// # Service Interface
//
// The mixer and the statistics engine depend on the narrow interfaces ([Catalog], [ArtistLookup],
// [FeatureLookup], [PlaylistWriter]) so they can be exercised with in-memory fakes. [Service] bundles them
// together with [Library] and [Searcher] for the CLI.
//
// # Credentials
//
// Every request asks a [CredentialProvider] for a bearer token first. [TokenProvider] wraps the stored
// OAuth2 token in a refreshing source and reports each new token through a callback so the CLI can persist it.
// A missing credential fails with [shared.ErrNotAuthenticated] without touching the network.
//
// # Batching and Pagination
//
// Artist details are requested 50 identifiers at a time and audio features 100 at a time. Batches run
// concurrently through an errgroup with a bounded number of in-flight requests; results keep input order.
// [SpotifyService.FetchAll] follows "next" links until the provider returns null.
//
// # Error Handling
//
// Non-2xx responses become [shared.APIError], carrying the status and the provider's message:
//   - [shared.ErrAPIRequest] : matched by every APIError and by transport failures
//   - [shared.ErrTokenExpired] : matched by 401 responses
//   - [shared.ErrNotAuthenticated] : no credential available
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
//
// # API Mappings
//
// Responses decode into unexported wire types that are mapped onto [models.Track], [models.Artist],
// [models.Playlist] and [models.User]. Missing popularity stays nil rather than zero, and listing entries
// without an identifier (local files, removed tracks, episodes) are skipped.
package services
