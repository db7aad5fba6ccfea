package models

import "strings"

// SongReference is one non-comment line of the songs file.
type SongReference struct {
	Line int    // 1-based line number in the songs file
	Text string // trimmed line content
}

// IsLink reports whether the reference is a direct link that bypasses search.
func (r SongReference) IsLink() bool {
	return strings.HasPrefix(r.Text, "http")
}

// Track represents a track returned by the streaming service.
type Track struct {
	ID     string `json:"id"`
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album,omitempty"`
}

// ResolvedTrack pairs a song reference with the identifier added to the playlist.
//
// Identifier is the search result URI, or the link text verbatim for direct links.
// Track is nil for direct links.
type ResolvedTrack struct {
	Reference  SongReference `json:"reference"`
	Identifier string        `json:"identifier"`
	Track      *Track        `json:"track,omitempty"`
}

// Playlist represents a playlist created on the streaming service.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Owner      string `json:"owner"`
	Public     bool   `json:"public"`
	TrackCount int    `json:"track_count"`
}
