// Package models defines domain entities and persistence interfaces for spotlist.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs passed between the loader, the engine and the Spotify session
//   - [SongReference] : One line of the songs file, a direct link or a free-text query
//   - [Track] : Track metadata returned by search
//   - [ResolvedTrack] : A reference paired with the identifier that will be added to the playlist
//   - [Playlist] : A playlist created on Spotify, reduced to what the record file needs
//
// 2. Persistent Entities: Database-backed history of past runs
//   - [PersistedPlaylist] : A created playlist with run metadata
//   - [PlaylistTrack] : Ordered entries of a persisted playlist
//
// Persistent entities implement the [Model] interface and are stored through a [Repository].
package models
