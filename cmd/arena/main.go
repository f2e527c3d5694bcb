package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/arena/internal/adapters/http/api"
	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/adapters/sink"
	"github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/internal/problems/flowshop"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

func main() {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	l := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM; an interrupted race still
	// publishes its best result.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		l.Fatal(ctx, "failed to load config", logger.Error(err))
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		l.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if _, err := run(ctx, cfg, nil); err != nil {
		l.Fatal(ctx, "race failed", logger.Error(err))
	}
}

// run races the flow-shop solvers as configured. statusAddr, when not nil,
// receives the status server address once it listens.
func run(ctx context.Context, cfg *config.Config, statusAddr chan<- net.Addr) (app.Report, error) {
	l := logger.Get()
	src := flowshop.Source{
		Path:     cfg.InputPath,
		Jobs:     cfg.InstanceJobs,
		Machines: cfg.InstanceMachines,
		Seed:     cfg.Seed,
	}
	store := repository.NewTreapStore(ranking.DirectionFor(cfg.MaximizeWeight))

	if cfg.MetricsAddr != "" {
		serveCtx, stopServer := context.WithCancel(ctx)
		served := make(chan struct{})
		go func() {
			defer close(served)
			if err := api.Serve(serveCtx, cfg.MetricsAddr, store, statusAddr); err != nil {
				l.Error(ctx, "status server failed", logger.Error(err))
			}
		}()
		defer func() {
			stopServer()
			<-served
		}()
	}

	opts := []app.Option{
		app.WithLogger(l),
		app.WithStandings(store),
		app.WithPollInterval(cfg.PollInterval()),
		app.WithResultBuffer(cfg.ResultBuffer),
		app.WithSink(sink.NewFileSink(sink.WithPath(cfg.OutputPath))),
	}

	var (
		rep app.Report
		err error
	)
	switch cfg.Mode {
	case config.ModeTournament:
		rep, err = runTournament(ctx, cfg, src, opts)
	default:
		rep, err = app.NewRace[*flowshop.Instance, []int](flowshop.NewHillClimb(src), cfg.Race(), opts...).Run(ctx)
	}

	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			l.Warn(ctx, "failed to write metrics textfile", logger.String("path", cfg.MetricsTextfile), logger.Error(werr))
		}
	}
	return rep, err
}

// runTournament splits the worker budget between hill climbing and annealing.
func runTournament(ctx context.Context, cfg *config.Config, src flowshop.Source, opts []app.Option) (app.Report, error) {
	anneal, err := flowshop.NewAnnealing(src, flowshop.DefaultAnnealingConfig())
	if err != nil {
		return app.Report{}, fmt.Errorf("annealing: %w", err)
	}
	perProgram := max(1, int(cfg.NumWorkers)/2)
	entrants := []app.Entrant[[]int]{
		app.Program[*flowshop.Instance, []int]("hillclimb", flowshop.NewHillClimb(src), perProgram, cfg.RestartWorkers),
		app.Program[*flowshop.Instance, []int]("annealing", anneal, perProgram, cfg.RestartWorkers),
	}
	return app.NewTournament(entrants, flowshop.Format, cfg.RunTimeBudgetSeconds, cfg.MaximizeWeight, opts...).Run(ctx)
}
