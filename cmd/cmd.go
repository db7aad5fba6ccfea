// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are declared on the root command and inherited by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "credentials",
			Usage: "Path to the credentials file (client id, secret, redirect URI)",
		},
		&cli.StringFlag{
			Name:  "songs",
			Usage: "Path to the songs file, one query or link per line",
		},
		&cli.StringFlag{
			Name:  "record",
			Usage: "Path to the file the playlist name and link are written to",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Playlist name (skips the name prompt)",
		},
		&cli.BoolFlag{
			Name:  "private",
			Usage: "Create a private playlist",
		},
	}
}

// createCommand builds a playlist from the songs file; it is also the root action.
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "create",
		Usage:  "Create a playlist from the songs file",
		Action: r.Create,
	}
}

// setupCommand writes starter files and prepares the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, input files and the history database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the history database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "files",
				Usage:  "Write template credentials and songs files",
				Action: r.SetupFiles,
			},
		},
	}
}

// historyCommand inspects playlists created by previous runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect playlists created by previous runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List created playlists, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include deleted entries",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one playlist and its tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "History id (defaults to the most recent playlist)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export a playlist's tracks to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "History id (defaults to the most recent playlist)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, txt, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (defaults to <spotify id>_tracks.<ext>)",
					},
				},
				Action: r.HistoryExport,
			},
			{
				Name:  "rename",
				Usage: "Rename a history entry (the playlist on Spotify is unchanged)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "History id (defaults to the most recent playlist)",
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "New name",
						Required: true,
					},
				},
				Action: r.HistoryRename,
			},
			{
				Name:  "delete",
				Usage: "Remove an entry from history (the playlist on Spotify is kept)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "History id",
						Required: true,
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}
