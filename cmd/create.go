package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotlist/internal/formatter"
	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/repositories"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/desertthunder/spotlist/internal/tasks"
	"github.com/desertthunder/spotlist/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	namePrompt = "What should the playlist be named?"
	donePrompt = "Are you done with the song list? (yes/no):"
)

// Create builds a playlist from the songs file.
//
// Both input files are checked before any network call. The record file is written once the tracks are added.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	paths := r.config.Paths
	if v := cmd.String("credentials"); v != "" {
		paths.Credentials = v
	}
	if v := cmd.String("songs"); v != "" {
		paths.Songs = v
	}
	if v := cmd.String("record"); v != "" {
		paths.Record = v
	}
	public := r.config.Spotify.Public && !cmd.Bool("private")

	if err := shared.RequireFiles(paths.Credentials, paths.Songs); err != nil {
		r.writePlain("%s\n", ui.Error("✗ Credentials or songs file is missing. Run `spotlist setup files` to create them."))
		return err
	}

	creds, err := shared.LoadCredentials(paths.Credentials)
	if err != nil {
		return err
	}
	refs, err := shared.LoadSongs(paths.Songs)
	if err != nil {
		return err
	}
	r.logger.Debug("inputs loaded", "songs", len(refs), "path", paths.Songs)

	session, err := r.connect(ctx, *creds)
	if err != nil {
		return err
	}

	owner, err := session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Authenticated as %s (%s)", owner, session.Name())))

	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		name, err = r.prompter.Ask(ctx, ui.Prompt{Question: namePrompt, Placeholder: "My playlist", Required: true})
		if err != nil {
			return err
		}
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	rendered := r.renderProgress(progress)

	engine := tasks.NewPlaylistEngine(tasks.EngineOpts{
		SearchRate: r.config.Spotify.SearchRate,
		Public:     public,
		Logger:     r.logger,
		Progress:   progress,
	})
	result, err := engine.Build(ctx, session, owner, name, engine.Resolve(ctx, session, refs))

	close(progress)
	<-rendered

	if err != nil {
		return err
	}

	r.writePlainln("%s", ui.OK(fmt.Sprintf("Playlist %q created successfully!", name)))
	r.writePlain("%s\n", result.Playlist.URL)

	unresolved := tasks.Unresolved(refs, result.Tracks)
	if len(unresolved) > 0 {
		r.writePlain("%s\n", ui.Warn(fmt.Sprintf("⚠ %d of %d songs were not found:", len(unresolved), len(refs))))
		for _, ref := range unresolved {
			r.writePlain("  line %d: %s\n", ref.Line, ref.Text)
		}
	}

	if err := formatter.WriteRecord(paths.Record, name, result.Playlist.URL); err != nil {
		return err
	}
	r.logger.Debug("record written", "path", paths.Record)

	r.saveHistory(result, paths.Songs, len(unresolved))

	answer, err := r.prompter.Ask(ctx, ui.Prompt{Question: donePrompt, Placeholder: "yes"})
	if err != nil && !errors.Is(err, shared.ErrPromptAborted) {
		return err
	}

	if strings.EqualFold(strings.TrimSpace(answer), "yes") {
		r.writePlain("%s\n", ui.OK("Playlist created and saved."))
	} else {
		r.writePlain("%s\n", ui.Warn("You chose not to finalize the playlist creation."))
	}
	return nil
}

// saveHistory stores the run in the history database. Failures are logged and never fail the run.
func (r *Runner) saveHistory(result *tasks.BuildResult, songsPath string, unresolved int) {
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		r.logger.Warn("history unavailable", "error", err)
		return
	}
	if db == nil {
		return
	}
	defer db.Close()

	entry := models.NewPersistedPlaylist(*result.Playlist, songsPath, result.Tracks, unresolved)
	if err := repositories.NewPlaylistRepository(db).Create(entry); err != nil {
		r.logger.Warn("failed to save playlist history", "error", err)
		return
	}
	r.logger.Debug("history saved", "id", entry.ID(), "sequence", entry.Sequence())
}
