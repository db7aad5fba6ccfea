package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/desertthunder/spotlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("%s\n", ui.OK("✓ Wrote "+configPath))
}

// SetupFiles writes template credentials and songs files without overwriting existing ones.
func (r *Runner) SetupFiles(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	credentials := r.config.Paths.Credentials
	if v := cmd.String("credentials"); v != "" {
		credentials = v
	}
	songs := r.config.Paths.Songs
	if v := cmd.String("songs"); v != "" {
		songs = v
	}

	written, err := shared.CreateInputFiles(credentials, songs)
	for _, path := range written {
		r.writePlain("%s\n", ui.OK("✓ Wrote "+path))
	}
	if err != nil {
		return err
	}
	if len(written) == 0 {
		r.writePlain("%s\n", ui.Help("Input files already exist, nothing to do."))
	}
	return nil
}

// SetupDatabase initializes the history database and runs migrations.
//
// With --rollback the most recent migration is reverted after migrating.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty, history is disabled", shared.ErrInvalidConfig)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.logger.Info("rolled back latest migration", "path", r.config.Database.Path)
		return nil
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}
