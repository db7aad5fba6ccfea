package models

import "testing"

func TestSongReference(t *testing.T) {
	tt := []struct {
		text string
		want bool
	}{
		{"https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", true},
		{"http://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", true},
		{"spotify:track:4cOdK2wGLETKBW3PvgPWqT", false},
		{"Daft Punk - One More Time", false},
		{"httpster - a band name", true},
	}

	for _, tc := range tt {
		t.Run(tc.text, func(t *testing.T) {
			if got := (SongReference{Text: tc.text}).IsLink(); got != tc.want {
				t.Errorf("IsLink() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPersistedPlaylist(t *testing.T) {
	playlist := Playlist{ID: "pl1", Name: "Road Trip", URL: "https://open.spotify.com/playlist/pl1", Owner: "user1", Public: true}
	resolved := []ResolvedTrack{
		{Reference: SongReference{Line: 1, Text: "One More Time"}, Identifier: "spotify:track:a", Track: &Track{Title: "One More Time", Artist: "Daft Punk"}},
		{Reference: SongReference{Line: 3, Text: "https://open.spotify.com/track/b"}, Identifier: "https://open.spotify.com/track/b"},
	}

	t.Run("NewPersistedPlaylist", func(t *testing.T) {
		p := NewPersistedPlaylist(playlist, "Configs/songs.txt", resolved, 1)

		if err := p.Validate(); err != nil {
			t.Fatalf("expected valid playlist, got %v", err)
		}

		if p.TrackCount() != 2 {
			t.Errorf("expected 2 tracks, got %d", p.TrackCount())
		}

		tracks := p.Tracks()
		if tracks[0].Title != "One More Time" || tracks[0].Artist != "Daft Punk" {
			t.Errorf("expected search metadata on first track, got %+v", tracks[0])
		}

		if tracks[1].Position != 1 || tracks[1].Title != "" {
			t.Errorf("expected bare link entry at position 1, got %+v", tracks[1])
		}

		if p.Playlist() != (Playlist{ID: "pl1", Name: "Road Trip", URL: playlist.URL, Owner: "user1", Public: true, TrackCount: 2}) {
			t.Errorf("unexpected DTO %+v", p.Playlist())
		}

		if p.UnresolvedCount() != 1 {
			t.Errorf("expected 1 unresolved, got %d", p.UnresolvedCount())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(p *PersistedPlaylist)
		}{
			{"missing spotify id", func(p *PersistedPlaylist) { p.spotifyID = "" }},
			{"missing owner", func(p *PersistedPlaylist) { p.ownerID = "" }},
			{"missing name", func(p *PersistedPlaylist) { p.SetName("") }},
			{"bad position", func(p *PersistedPlaylist) { p.SetTracks([]PlaylistTrack{{Position: 4, Identifier: "x"}}) }},
			{"empty identifier", func(p *PersistedPlaylist) { p.SetTracks([]PlaylistTrack{{Position: 0}}) }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				p := NewPersistedPlaylist(playlist, "", resolved, 0)
				tc.mutate(p)
				if err := p.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}
