package services

import (
	"errors"
	"testing"

	"github.com/desertthunder/spotlist/internal/shared"
)

func TestTrackID(t *testing.T) {
	const id = "4uLU6hMCjMI75M1A2tKUQC"

	valid := []struct {
		name       string
		identifier string
	}{
		{"Track URI", "spotify:track:" + id},
		{"Bare ID", id},
		{"Open Link", "https://open.spotify.com/track/" + id},
		{"Open Link With Query", "https://open.spotify.com/track/" + id + "?si=1a2b3c"},
		{"Localised Link", "https://open.spotify.com/intl-de/track/" + id},
		{"Surrounding Whitespace", "  spotify:track:" + id + " "},
	}

	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TrackID(tt.identifier)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != id {
				t.Errorf("expected %s, got %s", id, got)
			}
		})
	}

	invalid := []struct {
		name       string
		identifier string
	}{
		{"Album Link", "https://open.spotify.com/album/" + id},
		{"Other Host Without Track", "https://example.com/song"},
		{"Short URI", "spotify:track:abc"},
		{"Episode URI", "spotify:episode:" + id},
		{"Free Text", "Daft Punk One More Time"},
		{"Empty", ""},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TrackID(tt.identifier); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTrackIDs(t *testing.T) {
	t.Run("Preserves Order", func(t *testing.T) {
		ids, err := TrackIDs([]string{"spotify:track:0VjIjW4GlUZAMYd2vXMi3b", "4uLU6hMCjMI75M1A2tKUQC"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(ids) != 2 || ids[0] != "0VjIjW4GlUZAMYd2vXMi3b" || ids[1] != "4uLU6hMCjMI75M1A2tKUQC" {
			t.Errorf("unexpected ids %v", ids)
		}
	})

	t.Run("Fails On First Invalid", func(t *testing.T) {
		if _, err := TrackIDs([]string{"4uLU6hMCjMI75M1A2tKUQC", "nope"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
