// Package app races solver attempts against a wall-clock budget and
// publishes the best outcome.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/adapters/mq/queue"
	"github.com/okian/arena/internal/adapters/mq/worker"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/internal/domain/solver"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Race runs one solver across a homogeneous pool of workers.
type Race[I, S any] struct {
	cfg    config.Race
	solver solver.Solver[I, S]
	opts   options
}

// NewRace creates a race of s under cfg.
func NewRace[I, S any](s solver.Solver[I, S], cfg config.Race, opts ...Option) *Race[I, S] {
	return &Race[I, S]{
		cfg:    cfg,
		solver: s,
		opts:   newOptions("race", opts),
	}
}

// Run executes the race and publishes the best outcome through the sink.
//
// In battle mode it spawns NumWorkers workers and polls them round-robin
// until the polling window closes or no worker is left. Otherwise it solves
// once on the calling goroutine.
func (r *Race[I, S]) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rep := Report{RaceID: uuid.New(), Mode: ModeVerbose}
	if r.cfg.BattleMode {
		rep.Mode = ModeBattle
	}

	if err := r.cfg.Validate(); err != nil {
		return rep, err
	}

	input, err := r.solver.ParseInput(ctx)
	if err != nil {
		metrics.RecordRaceFinished(rep.Mode, metrics.ResultParseError, msSince(start))
		return rep, fmt.Errorf("%w: %w", ErrParseInput, err)
	}

	if !r.cfg.BattleMode {
		return r.runVerbose(ctx, start, rep, input)
	}
	return r.runBattle(ctx, start, rep, input)
}

func (r *Race[I, S]) runVerbose(ctx context.Context, start time.Time, rep Report, input I) (Report, error) {
	l := r.opts.logger
	l.Info(ctx, "solving once in verbose mode", logger.String("race_id", rep.RaceID.String()))

	o, err := r.solver.Solve(ctx, input)
	rep.Considered = 1
	if err != nil {
		metrics.RecordRaceFinished(rep.Mode, metrics.ResultNoSolution, msSince(start))
		return rep, fmt.Errorf("%w: %w", ErrNoSolution, err)
	}
	rep.Improvements = 1
	rep.Source = "main"
	record(ctx, r.opts, rep.Source, o.Weight)

	return publish(ctx, r.opts, start, rep, r.solver.FormatSolution(o.Solution), o.Weight)
}

func (r *Race[I, S]) runBattle(ctx context.Context, start time.Time, rep Report, input I) (Report, error) {
	l := r.opts.logger
	raceID := logger.String("race_id", rep.RaceID.String())

	// Cancelled once the race is decided so cooperative solvers stop early.
	workCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	deadline := start.Add(r.cfg.PollingWindow())
	wake := make(chan struct{}, 1)
	pending := queue.New[*worker.Handle[S]]()
	tracker := ranking.NewTracker[S](ranking.DirectionFor(r.cfg.MaximizeWeight))

	spawn := func(name string) {
		h := worker.Spawn(workCtx, r.solver, input,
			worker.WithName(name),
			worker.WithNotify(wake),
			worker.WithLogger(l),
		)
		rep.Spawned++
		_ = pending.Push(h) // unbounded
	}

	for i := 0; i < int(r.cfg.NumWorkers); i++ {
		spawn("worker-" + strconv.Itoa(i))
	}
	l.Info(ctx, "spawned all workers",
		raceID,
		logger.Int("workers", int(r.cfg.NumWorkers)),
		logger.Duration("at", time.Since(start)),
		logger.Duration("polling_window", r.cfg.PollingWindow()),
	)

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

poll:
	for pending.Len() > 0 {
		progressed := false
		// one sweep visits every handle that was pending when it began
		for n := pending.Len(); n > 0; n-- {
			if !time.Now().Before(deadline) {
				break poll
			}
			h, _ := pending.Pop()
			o, state, _ := h.TryReceive(ctx)
			switch state {
			case worker.Pending:
				_ = pending.Push(h)
			case worker.Failed:
				progressed = true
				rep.Failed++
			case worker.Done:
				progressed = true
				improved := tracker.Offer(h.Name, o)
				metrics.RecordOutcome("worker", o.Weight, improved)
				record(ctx, r.opts, h.Name, o.Weight)
				l.Debug(ctx, "worker finished",
					raceID,
					logger.String("worker", h.Name),
					logger.Uint64("weight", o.Weight),
					logger.Bool("improved", improved),
					logger.Duration("at", time.Since(start)),
				)
				if improved {
					l.Info(ctx, "new best solution", raceID, logger.Uint64("weight", o.Weight), logger.String("worker", h.Name))
				}
				if r.cfg.RestartWorkers {
					// the replacement keeps the slot name
					spawn(h.Name)
				}
			}
		}

		if progressed || pending.Len() == 0 {
			continue
		}
		select {
		case <-wake:
		case <-timer.C:
			break poll
		case <-ctx.Done():
			l.Warn(ctx, "race interrupted, finishing with the best so far", raceID)
			break poll
		}
	}
	stopWorkers()

	if abandoned := pending.Drain(); len(abandoned) > 0 {
		for _, h := range abandoned {
			h.Cancel()
		}
		l.Info(ctx, "polling window closed", raceID, logger.Int("abandoned_workers", len(abandoned)))
	} else {
		l.Info(ctx, "no more workers running", raceID, logger.Duration("at", time.Since(start)))
	}

	rep.Considered = tracker.Considered()
	rep.Improvements = tracker.Improvements()
	best, ok := tracker.Best()
	if !ok {
		metrics.RecordRaceFinished(rep.Mode, metrics.ResultNoSolution, msSince(start))
		rep.Elapsed = time.Since(start)
		return rep, fmt.Errorf("%w: %d workers spawned, %d failed", ErrNoSolution, rep.Spawned, rep.Failed)
	}
	rep.Source = tracker.Source()

	return publish(ctx, r.opts, start, rep, r.solver.FormatSolution(best.Solution), best.Weight)
}

// standingsTop bounds Report.Standings.
const standingsTop = 10

// record feeds the standings store when one is configured.
func record(ctx context.Context, o options, source string, weight uint64) {
	if o.standings == nil {
		return
	}
	if _, err := o.standings.UpdateBest(ctx, source, weight); err != nil {
		o.logger.Warn(ctx, "standings update failed", logger.String("source", source), logger.Error(err))
	}
}

// publish emits the formatted winner and prints the report.
func publish(ctx context.Context, o options, start time.Time, rep Report, formatted string, weight uint64) (Report, error) {
	rep.Weight = weight
	if o.standings != nil {
		if top, err := o.standings.TopN(ctx, standingsTop); err == nil {
			rep.Standings = top
		}
	}
	if err := o.sink.Emit(ctx, formatted); err != nil {
		metrics.RecordRaceFinished(rep.Mode, metrics.ResultEmitError, msSince(start))
		return rep, wrapEmit(err)
	}
	rep.Elapsed = time.Since(start)
	if err := o.sink.Report(ctx, weight, rep.Elapsed); err != nil {
		metrics.RecordRaceFinished(rep.Mode, metrics.ResultEmitError, msSince(start))
		return rep, wrapEmit(err)
	}

	metrics.RecordRaceFinished(rep.Mode, metrics.ResultSolved, msSince(start))
	o.logger.Info(ctx, "race finished",
		logger.String("race_id", rep.RaceID.String()),
		logger.String("mode", rep.Mode),
		logger.Uint64("weight", weight),
		logger.String("source", rep.Source),
		logger.Int("considered", rep.Considered),
		logger.Int("spawned", rep.Spawned),
		logger.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

func wrapEmit(err error) error {
	if errors.Is(err, ErrEmit) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEmit, err)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Milliseconds())
}
