package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotlist/internal/services"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/desertthunder/spotlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// Connector authenticates against the streaming service and returns the session used for the rest of the run.
type Connector func(ctx context.Context, creds shared.Credentials) (services.Session, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config         *shared.Config
	httpClient     *http.Client
	logger         *log.Logger
	output         io.Writer
	prompter       ui.Prompter
	connect        Connector
	openBrowser    shared.BrowserOpener
	spotifyOptions []services.SpotifyOption
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag when the first command runs.
type RunnerOpts struct {
	Config         *shared.Config
	HTTPClient     *http.Client
	Logger         *log.Logger
	Output         io.Writer
	Prompter       ui.Prompter
	Connect        Connector
	OpenBrowser    shared.BrowserOpener
	SpotifyOptions []services.SpotifyOption
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Prompter == nil {
		opts.Prompter = ui.NewPrompter(os.Stdin, opts.Output)
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	r := &Runner{
		config:         opts.Config,
		httpClient:     opts.HTTPClient,
		logger:         opts.Logger,
		output:         opts.Output,
		prompter:       opts.Prompter,
		connect:        opts.Connect,
		openBrowser:    opts.OpenBrowser,
		spotifyOptions: opts.SpotifyOptions,
	}
	if r.connect == nil {
		r.connect = r.connectSpotify
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		createCommand, setupCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// prepare applies the global flags and loads the configuration once per process.
func (r *Runner) prepare(cmd *cli.Command) error {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	if r.config != nil {
		return nil
	}

	config, err := shared.LoadConfigOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}
	r.config = config
	r.logger.Debug("configuration loaded", "path", cmd.String("config"))
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
