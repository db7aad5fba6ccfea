package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newHistoryEntry(name string, n int) *models.PersistedPlaylist {
	resolved := make([]models.ResolvedTrack, n)
	for i := range resolved {
		resolved[i] = models.ResolvedTrack{
			Reference:  models.SongReference{Line: i + 1, Text: fmt.Sprintf("song %d", i)},
			Identifier: fmt.Sprintf("spotify:track:%022d", i),
			Track:      &models.Track{Title: fmt.Sprintf("Song %d", i), Artist: "Artist"},
		}
	}

	playlist := models.Playlist{
		ID:     "sp-" + name,
		Name:   name,
		URL:    "https://open.spotify.com/playlist/sp-" + name,
		Owner:  "user-1",
		Public: true,
	}
	return models.NewPersistedPlaylist(playlist, "Configs/songs.txt", resolved, 1)
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "playlists")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	t.Run("Unknown Table", func(t *testing.T) {
		if _, err := NextSequence(db, "missing"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown sequence table, got %v", err)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		playlist := newHistoryEntry("Road Trip", 3)

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		if playlist.ID() == "" {
			t.Error("playlist ID should be set after creation")
		}
		if playlist.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", playlist.Sequence())
		}
	})

	t.Run("Create Rejects Invalid", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		playlist := models.NewPersistedPlaylist(models.Playlist{Name: "no id"}, "", nil, 0)

		if err := repo.Create(playlist); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		playlist := newHistoryEntry("Road Trip", 3)
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		retrieved, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}

		if retrieved.Name() != "Road Trip" || retrieved.SpotifyID() != "sp-Road Trip" {
			t.Errorf("unexpected playlist %+v", retrieved.JSON())
		}
		if retrieved.URL() != playlist.URL() {
			t.Errorf("expected URL %s, got %s", playlist.URL(), retrieved.URL())
		}
		if !retrieved.Public() || retrieved.UnresolvedCount() != 1 {
			t.Errorf("unexpected metadata %+v", retrieved.JSON())
		}

		tracks := retrieved.Tracks()
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(tracks))
		}
		for i, track := range tracks {
			if track.Position != i {
				t.Errorf("track %d: expected position %d, got %d", i, i, track.Position)
			}
			if track.Identifier != fmt.Sprintf("spotify:track:%022d", i) {
				t.Errorf("track %d: unexpected identifier %s", i, track.Identifier)
			}
			if track.Title != fmt.Sprintf("Song %d", i) {
				t.Errorf("track %d: unexpected title %s", i, track.Title)
			}
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		playlist := newHistoryEntry("Road Trip", 3)
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		playlist.SetName("Road Trip II")
		playlist.SetTracks(playlist.Tracks()[:1])
		if err := repo.Update(playlist); err != nil {
			t.Fatalf("failed to update playlist: %v", err)
		}

		retrieved, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if retrieved.Name() != "Road Trip II" {
			t.Errorf("expected updated name, got %s", retrieved.Name())
		}
		if retrieved.TrackCount() != 1 {
			t.Errorf("expected 1 track after update, got %d", retrieved.TrackCount())
		}
	})

	t.Run("Update Missing", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		playlist := newHistoryEntry("Ghost", 0)
		playlist.SetID("missing")

		if err := repo.Update(playlist); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		playlist := newHistoryEntry("Road Trip", 1)
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		if err := repo.Delete(playlist.ID()); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		if _, err := repo.Get(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected deleted playlist to be hidden, got %v", err)
		}

		if err := repo.Delete(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected second delete to fail, got %v", err)
		}
	})

	t.Run("Delete Keeps Entry For Include Deleted", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		kept := newHistoryEntry("Kept", 1)
		gone := newHistoryEntry("Gone", 1)
		for _, p := range []*models.PersistedPlaylist{kept, gone} {
			if err := repo.Create(p); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}
		}
		if err := repo.Delete(gone.ID()); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		visible, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(visible) != 1 || visible[0].Name() != "Kept" {
			t.Fatalf("expected only Kept, got %d entries", len(visible))
		}

		all, err := repo.List(map[string]any{"include_deleted": true})
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(all))
		}
		if !all[0].IsDeleted() || all[0].Name() != "Gone" {
			t.Errorf("expected newest entry Gone to be marked deleted, got %s deleted=%v", all[0].Name(), all[0].IsDeleted())
		}
		if all[1].IsDeleted() {
			t.Error("expected Kept not to be marked deleted")
		}

		latest, err := repo.Latest()
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest.Name() != "Kept" {
			t.Errorf("expected Latest to skip deleted entries, got %s", latest.Name())
		}
	})

	t.Run("Failed Create Does Not Consume Sequence", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		_, err := db.Exec(`INSERT INTO playlists (id, sequence, spotify_id, owner_id, name, created_at, updated_at)
			VALUES ('blocker', 1, 'sp-blocker', 'user-1', 'Blocker', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
		if err != nil {
			t.Fatalf("failed to insert blocking row: %v", err)
		}

		if err := repo.Create(newHistoryEntry("Clash", 1)); err == nil {
			t.Fatal("expected sequence clash to fail the insert")
		}

		if _, err := db.Exec(`DELETE FROM playlists WHERE id = 'blocker'`); err != nil {
			t.Fatalf("failed to remove blocking row: %v", err)
		}

		playlist := newHistoryEntry("Road Trip", 1)
		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if playlist.Sequence() != 1 {
			t.Errorf("expected sequence 1 after rolled back insert, got %d", playlist.Sequence())
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		for _, name := range []string{"first", "second", "third"} {
			if err := repo.Create(newHistoryEntry(name, 2)); err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}
		}

		playlists, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(playlists) != 3 {
			t.Fatalf("expected 3 playlists, got %d", len(playlists))
		}
		if playlists[0].Name() != "third" || playlists[2].Name() != "first" {
			t.Errorf("expected newest first, got %s ... %s", playlists[0].Name(), playlists[2].Name())
		}
		if playlists[0].TrackCount() != 2 {
			t.Errorf("expected tracks to be loaded, got %d", playlists[0].TrackCount())
		}

		t.Run("Limit", func(t *testing.T) {
			limited, err := repo.List(map[string]any{"limit": 2})
			if err != nil {
				t.Fatalf("failed to list playlists: %v", err)
			}
			if len(limited) != 2 {
				t.Errorf("expected 2 playlists, got %d", len(limited))
			}
		})

		t.Run("Owner", func(t *testing.T) {
			owned, err := repo.List(map[string]any{"owner_id": "someone-else"})
			if err != nil {
				t.Fatalf("failed to list playlists: %v", err)
			}
			if len(owned) != 0 {
				t.Errorf("expected no playlists, got %d", len(owned))
			}
		})

		t.Run("Latest", func(t *testing.T) {
			latest, err := repo.Latest()
			if err != nil {
				t.Fatalf("failed to get latest: %v", err)
			}
			if latest.Name() != "third" {
				t.Errorf("expected third, got %s", latest.Name())
			}
		})
	})

	t.Run("Latest Empty", func(t *testing.T) {
		repo := NewPlaylistRepository(setupTestDB(t))
		if _, err := repo.Latest(); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)
		db.Close()

		if err := repo.Create(newHistoryEntry("x", 1)); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(nil); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
