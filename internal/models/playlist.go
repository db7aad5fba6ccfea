package models

import (
	"fmt"
	"time"
)

// PlaylistTrack is one ordered entry of a persisted playlist.
type PlaylistTrack struct {
	Position   int    `json:"position"`
	Reference  string `json:"reference"`
	Identifier string `json:"identifier"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
}

// PersistedPlaylist is the history record of a playlist created by a run.
type PersistedPlaylist struct {
	id              string
	sequence        int
	spotifyID       string
	ownerID         string
	name            string
	url             string
	public          bool
	songsPath       string
	unresolvedCount int
	tracks          []PlaylistTrack
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

var _ Model = (*PersistedPlaylist)(nil)

// NewPersistedPlaylist builds a history record from a created playlist and the tracks added to it.
func NewPersistedPlaylist(playlist Playlist, songsPath string, resolved []ResolvedTrack, unresolved int) *PersistedPlaylist {
	now := time.Now().UTC()
	tracks := make([]PlaylistTrack, len(resolved))
	for i, r := range resolved {
		tracks[i] = PlaylistTrack{
			Position:   i,
			Reference:  r.Reference.Text,
			Identifier: r.Identifier,
		}
		if r.Track != nil {
			tracks[i].Title = r.Track.Title
			tracks[i].Artist = r.Track.Artist
		}
	}

	return &PersistedPlaylist{
		spotifyID:       playlist.ID,
		ownerID:         playlist.Owner,
		name:            playlist.Name,
		url:             playlist.URL,
		public:          playlist.Public,
		songsPath:       songsPath,
		unresolvedCount: unresolved,
		tracks:          tracks,
		createdAt:       now,
		updatedAt:       now,
	}
}

// RestorePersistedPlaylist rebuilds a record read from storage.
func RestorePersistedPlaylist(
	id string, sequence int, spotifyID, ownerID, name, url string, public bool,
	songsPath string, unresolvedCount int, createdAt, updatedAt time.Time, deletedAt *time.Time,
) *PersistedPlaylist {
	return &PersistedPlaylist{
		id:              id,
		sequence:        sequence,
		spotifyID:       spotifyID,
		ownerID:         ownerID,
		name:            name,
		url:             url,
		public:          public,
		songsPath:       songsPath,
		unresolvedCount: unresolvedCount,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (p *PersistedPlaylist) ID() string                  { return p.id }
func (p *PersistedPlaylist) Sequence() int               { return p.sequence }
func (p *PersistedPlaylist) SpotifyID() string           { return p.spotifyID }
func (p *PersistedPlaylist) OwnerID() string             { return p.ownerID }
func (p *PersistedPlaylist) Name() string                { return p.name }
func (p *PersistedPlaylist) URL() string                 { return p.url }
func (p *PersistedPlaylist) Public() bool                { return p.public }
func (p *PersistedPlaylist) SongsPath() string           { return p.songsPath }
func (p *PersistedPlaylist) UnresolvedCount() int        { return p.unresolvedCount }
func (p *PersistedPlaylist) Tracks() []PlaylistTrack     { return p.tracks }
func (p *PersistedPlaylist) TrackCount() int             { return len(p.tracks) }
func (p *PersistedPlaylist) CreatedAt() time.Time        { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time        { return p.updatedAt }
func (p *PersistedPlaylist) DeletedAt() *time.Time       { return p.deletedAt }
func (p *PersistedPlaylist) IsDeleted() bool             { return p.deletedAt != nil }
func (p *PersistedPlaylist) SetID(id string)             { p.id = id }
func (p *PersistedPlaylist) SetSequence(seq int)         { p.sequence = seq }
func (p *PersistedPlaylist) SetName(name string)         { p.name = name }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)    { p.updatedAt = t }
func (p *PersistedPlaylist) SetTracks(t []PlaylistTrack) { p.tracks = t }

// Playlist converts the record back to its DTO form.
func (p *PersistedPlaylist) Playlist() Playlist {
	return Playlist{
		ID:         p.spotifyID,
		Name:       p.name,
		URL:        p.url,
		Owner:      p.ownerID,
		Public:     p.public,
		TrackCount: len(p.tracks),
	}
}

// Validate checks required fields.
func (p *PersistedPlaylist) Validate() error {
	if p.spotifyID == "" {
		return fmt.Errorf("spotify id is required")
	}
	if p.ownerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if p.name == "" {
		return fmt.Errorf("name is required")
	}
	for i, t := range p.tracks {
		if t.Position != i {
			return fmt.Errorf("track %d has position %d", i, t.Position)
		}
		if t.Identifier == "" {
			return fmt.Errorf("track %d has no identifier", i)
		}
	}
	return nil
}

// PersistedPlaylistJSON is the serialisable view used by `history --json`.
type PersistedPlaylistJSON struct {
	ID              string          `json:"id"`
	Sequence        int             `json:"sequence"`
	SpotifyID       string          `json:"spotify_id"`
	Owner           string          `json:"owner"`
	Name            string          `json:"name"`
	URL             string          `json:"url"`
	Public          bool            `json:"public"`
	SongsPath       string          `json:"songs_path"`
	UnresolvedCount int             `json:"unresolved_count"`
	Tracks          []PlaylistTrack `json:"tracks,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

// JSON returns the serialisable view of the record.
func (p *PersistedPlaylist) JSON() PersistedPlaylistJSON {
	return PersistedPlaylistJSON{
		ID:              p.id,
		Sequence:        p.sequence,
		SpotifyID:       p.spotifyID,
		Owner:           p.ownerID,
		Name:            p.name,
		URL:             p.url,
		Public:          p.public,
		SongsPath:       p.songsPath,
		UnresolvedCount: p.unresolvedCount,
		Tracks:          p.tracks,
		CreatedAt:       p.createdAt,
		DeletedAt:       p.deletedAt,
	}
}
