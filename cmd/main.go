package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command. Running it without a subcommand performs create.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "spotlist",
		Usage:    "Build a Spotify playlist from a list of songs",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Commands: r.register(),
		Action:   r.Create,
	}
}
