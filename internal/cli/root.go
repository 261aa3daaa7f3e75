package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/config"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/progress"
	"github.com/Anton2181/partykajson/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Aggregate service.AggregateService
	Solve     service.SolveService
	Runs      service.RunService
	History   service.HistoryService
	Reports   service.ReportService
	Sweep     service.SweepService

	// SolverFor builds a solve service for a configuration overridden on
	// the command line.
	SolverFor func(cfg optimizer.Config) (service.SolveService, error)
	// Progress returns an extra sink for a run, such as a NATS publisher.
	// Optional.
	Progress func(runID string) progress.Sink
	// Interactive enables the spinner.
	Interactive bool
}

// Options are the global flags, known before the App is wired.
type Options struct {
	ConfigPath string
	NoColor    bool
	// Flags are the persistent flags, for binding to configuration keys.
	Flags *pflag.FlagSet
}

// Wire builds the App for one invocation.
type Wire func(opts Options) (*App, error)

type state struct {
	app *App
}

// NewRootCmd creates the top-level "partyka" command. The App is wired
// once flags are parsed, right before the selected subcommand runs.
func NewRootCmd(wire Wire) *cobra.Command {
	var opts Options
	s := &state{}

	root := &cobra.Command{
		Use:           "partyka",
		Short:         "Group weekly tasks and assign them to the team",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.NoColor {
				formatter.SetColor(false)
			}
			opts.Flags = cmd.Root().PersistentFlags()
			app, err := wire(opts)
			if err != nil {
				return err
			}
			s.app = app
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (JSON, YAML or TOML)")
	flags.String("db", "", "Run history database path (default ~/.partyka/partyka.db)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newAggregateCmd(s),
		newSolveCmd(s),
		newRunCmd(s),
		newHistoryCmd(s),
		newReportCmd(s),
		newSweepCmd(s),
		newRulesCmd(s),
		newCheckCmd(s),
	)

	return root
}

// addInputFlags registers --tasks, --families and --roster. Empty values
// fall back to the inputs section of the config.
func addInputFlags(cmd *cobra.Command, p *importer.Paths) {
	cmd.Flags().StringVar(&p.Tasks, "tasks", "", "Tasks file (JSON)")
	cmd.Flags().StringVar(&p.Families, "families", "", "Families file (JSON or YAML)")
	cmd.Flags().StringVar(&p.Roster, "roster", "", "Roster file (JSON or YAML)")
}

func resolvePaths(app *App, p importer.Paths) (importer.Paths, error) {
	if app.Config != nil {
		if p.Tasks == "" {
			p.Tasks = app.Config.Inputs.Tasks
		}
		if p.Families == "" {
			p.Families = app.Config.Inputs.Families
		}
		if p.Roster == "" {
			p.Roster = app.Config.Inputs.Roster
		}
	}
	var errs []error
	if p.Tasks == "" {
		errs = append(errs, errors.New("--tasks (or inputs.tasks) is required"))
	}
	if p.Families == "" {
		errs = append(errs, errors.New("--families (or inputs.families) is required"))
	}
	if p.Roster == "" {
		errs = append(errs, errors.New("--roster (or inputs.roster) is required"))
	}
	if len(errs) > 0 {
		return p, fmt.Errorf("missing inputs: %w", errors.Join(errs...))
	}
	return p, nil
}

func outputDir(app *App, flag string) string {
	if flag != "" {
		return flag
	}
	if app.Config != nil && app.Config.Output.Dir != "" {
		return app.Config.Output.Dir
	}
	return "out"
}

// spin starts a spinner on stderr when attached to a terminal.
func spin(cmd *cobra.Command, app *App, message string) func() {
	if !app.Interactive {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}
