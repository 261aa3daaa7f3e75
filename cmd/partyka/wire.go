package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/Anton2181/partykajson/internal/cli"
	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/config"
	"github.com/Anton2181/partykajson/internal/db"
	"github.com/Anton2181/partykajson/internal/logging"
	"github.com/Anton2181/partykajson/internal/metrics"
	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/pbmodel"
	"github.com/Anton2181/partykajson/internal/progress"
	"github.com/Anton2181/partykajson/internal/repository"
	"github.com/Anton2181/partykajson/internal/service"
	"github.com/Anton2181/partykajson/internal/sweep"
	"github.com/mattn/go-isatty"
	"github.com/nats-io/nats.go"
)

// flagKeys maps global flags onto the config keys they override.
var flagKeys = map[string]string{
	"db":        "storage.db_path",
	"log-level": "log.level",
}

// resources are released after the command returns, whatever its outcome.
type resources struct {
	db       *sql.DB
	nc       *nats.Conn
	metrics  *metrics.Solver
	textfile string
}

// Close writes the metrics textfile, drains NATS and closes the database.
func (r *resources) Close() error {
	var errs []error
	if r.metrics != nil && r.textfile != "" {
		if err := r.metrics.WriteTextfile(r.textfile); err != nil {
			errs = append(errs, err)
		}
	}
	if r.nc != nil {
		if err := r.nc.Drain(); err != nil {
			errs = append(errs, fmt.Errorf("draining nats connection: %w", err))
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func loadConfig(opts cli.Options) (*config.Config, error) {
	v := config.New()
	if opts.ConfigPath != "" {
		v.SetConfigFile(opts.ConfigPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.ConfigPath, err)
		}
	}
	if opts.Flags != nil {
		for flag, key := range flagKeys {
			if f := opts.Flags.Lookup(flag); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", flag, err)
				}
			}
		}
	}
	return config.FromViper(v)
}

func wire(opts cli.Options) (*cli.App, *resources, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	rec := metrics.NewSolver()
	res := &resources{db: database, metrics: rec, textfile: cfg.Metrics.Textfile}

	// Wire repositories
	runRepo := repository.NewSQLiteRunRepo(database)
	groupRepo := repository.NewSQLiteGroupRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	penaltyRepo := repository.NewSQLitePenaltyRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	observer := service.NewLogUseCaseObserver(logger)
	engine := pbmodel.NewGophersatEngine(logger)
	solverFor := func(c optimizer.Config) (service.SolveService, error) {
		return service.NewSolveService(c, engine, logger, rec, observer)
	}
	solveSvc, err := solverFor(cfg.OptimizerConfig())
	if err != nil {
		_ = res.Close()
		return nil, nil, err
	}
	aggregateSvc := service.NewAggregateService(logger, rec, observer)
	historySvc := service.NewHistoryService(runRepo, groupRepo, assignmentRepo, penaltyRepo, observer)
	runner := sweep.NewRunner(engine, cfg.Sweep.Workers, sweep.WithLogger(logger), sweep.WithRecorder(rec))

	app := &cli.App{
		Config:    cfg,
		Logger:    logger,
		Aggregate: aggregateSvc,
		Solve:     solveSvc,
		Runs:      service.NewRunService(aggregateSvc, solveSvc, historySvc, runRepo, uow, observer),
		History:   historySvc,
		Reports:   service.NewReportService(historySvc),
		Sweep:     service.NewSweepService(runner, observer),
		SolverFor: solverFor,
	}

	// An unreachable broker only disables progress publishing.
	if cfg.Progress.NATSURL != "" {
		nc, err := nats.Connect(cfg.Progress.NATSURL, nats.Name("partyka"))
		if err != nil {
			logger.Warn("progress publishing disabled", "url", cfg.Progress.NATSURL, "error", err)
		} else {
			res.nc = nc
			subject := cfg.Progress.Subject
			app.Progress = func(runID string) progress.Sink {
				return progress.NewNATSPublisher(nc, subject, runID, logger)
			}
		}
	}

	// Detect terminals: spinner on stderr, colors on stdout.
	app.Interactive = isTerminal(os.Stderr)
	if opts.NoColor || !isTerminal(os.Stdout) {
		formatter.SetColor(false)
	}

	return app, res, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
