package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/spotlist/internal/formatter"
	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/repositories"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/desertthunder/spotlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// openHistory opens the history database, failing when history is disabled.
func (r *Runner) openHistory(cmd *cli.Command) (*sql.DB, error) {
	if err := r.prepare(cmd); err != nil {
		return nil, err
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, fmt.Errorf("%w: database.path is empty, history is disabled", shared.ErrInvalidConfig)
	}
	return db, nil
}

// findPlaylist returns the entry with the given id, or the most recent one when id is empty.
func findPlaylist(repo models.Repository[*models.PersistedPlaylist], id string) (*models.PersistedPlaylist, error) {
	if id == "" {
		return repo.Latest()
	}
	return repo.Get(id)
}

// HistoryList lists created playlists, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	limit := int(cmd.Int("limit"))
	criteria := map[string]any{"limit": limit, "include_deleted": cmd.Bool("all")}
	playlists, err := repositories.NewPlaylistRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		items := make([]models.PersistedPlaylistJSON, len(playlists))
		for i, p := range playlists {
			items[i] = p.JSON()
			items[i].Tracks = nil
		}
		return r.writeJSON(items, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("%s\n", ui.Help("No playlists created yet."))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		name := ui.Title(p.Name())
		if p.IsDeleted() {
			name = ui.Help(p.Name() + " (deleted)")
		}
		r.writePlain("#%-4d %s  %s\n", p.Sequence(), name, p.URL())
		r.writePlain("      %d tracks, %d not found, %s, %s  id=%s\n",
			p.TrackCount(), p.UnresolvedCount(), shared.VisibilityString(p.Public()),
			p.CreatedAt().Local().Format("2006-01-02 15:04"), p.ID())
	}
	return nil
}

// HistoryShow prints one playlist and its tracks.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlist, err := findPlaylist(repositories.NewPlaylistRepository(db), cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist.JSON(), true)
	}

	r.writePlainHeader(playlist.Name())
	r.writePlain("URL:        %s\n", playlist.URL())
	r.writePlain("Owner:      %s\n", playlist.OwnerID())
	r.writePlain("Visibility: %s\n", shared.VisibilityString(playlist.Public()))
	r.writePlain("Songs file: %s\n", playlist.SongsPath())
	r.writePlain("Created:    %s\n", playlist.CreatedAt().Local().Format("2006-01-02 15:04:05"))
	r.writePlain("Not found:  %d\n\n", playlist.UnresolvedCount())

	for _, track := range playlist.Tracks() {
		label := track.Reference
		if track.Title != "" {
			label = fmt.Sprintf("%s - %s", track.Artist, track.Title)
		}
		r.writePlain("%3d. %s\n", track.Position+1, label)
		r.writePlain("     %s\n", ui.Help(track.Identifier))
	}
	return nil
}

// HistoryExport writes a playlist's tracks to a file in the chosen format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	playlist, err := findPlaylist(repositories.NewPlaylistRepository(db), cmd.String("id"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(playlist, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported playlist", "id", playlist.ID(), "tracks", playlist.TrackCount())
	return r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Exported %q to %s", playlist.Name(), path)))
}

// HistoryRename changes the name stored for a history entry.
func (r *Runner) HistoryRename(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.String("to"))
	if name == "" {
		return fmt.Errorf("%w: --to must not be blank", shared.ErrInvalidArgument)
	}

	db, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)
	playlist, err := findPlaylist(repo, cmd.String("id"))
	if err != nil {
		return err
	}

	previous := playlist.Name()
	playlist.SetName(name)
	if err := repo.Update(playlist); err != nil {
		return err
	}

	r.logger.Info("renamed history entry", "id", playlist.ID(), "from", previous, "to", name)
	return r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Renamed %q to %q", previous, name)))
}

// HistoryDelete soft-deletes a history entry. It stays visible to `history list --all`.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)
	playlist, err := repo.Get(cmd.String("id"))
	if err != nil {
		return err
	}
	if err := repo.Delete(playlist.ID()); err != nil {
		return err
	}

	r.logger.Info("deleted history entry", "id", playlist.ID())
	return r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Removed %q from history", playlist.Name())))
}
