package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/adapters/mq/worker"
	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/internal/domain/solver"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Entrant is a self-contained program competing in a tournament. Run does its
// own parsing and worker management and sends zero or more outcomes through
// out; it may return at any time.
type Entrant[S any] struct {
	Name string
	Run  func(ctx context.Context, out worker.Sender[S])
}

// Program builds an Entrant that parses the input of s once and keeps n
// workers solving it, restarting them when restart is set.
func Program[I, S any](name string, s solver.Solver[I, S], n int, restart bool) Entrant[S] {
	return Entrant[S]{
		Name: name,
		Run: func(ctx context.Context, out worker.Sender[S]) {
			if err := worker.Register(ctx, out, s, n, restart); err != nil {
				logger.Get().Named("tournament").Error(ctx, "entrant did not start",
					logger.String("entrant", name), logger.Error(err))
			}
		},
	}
}

// Tournament races structurally different programs against a shared budget
// and keeps the best outcome regardless of which program produced it.
type Tournament[S any] struct {
	entrants  []Entrant[S]
	format    solver.Formatter[S]
	runtime   time.Duration
	direction ranking.Direction
	opts      options
}

// NewTournament creates a tournament lasting totalRuntimeSeconds.
func NewTournament[S any](entrants []Entrant[S], format solver.Formatter[S], totalRuntimeSeconds uint16, maximizeWeight bool, opts ...Option) *Tournament[S] {
	return &Tournament[S]{
		entrants:  entrants,
		format:    format,
		runtime:   time.Duration(totalRuntimeSeconds) * time.Second,
		direction: ranking.DirectionFor(maximizeWeight),
		opts:      newOptions("tournament", opts),
	}
}

// Run starts every entrant, sweeps their channels each poll interval for
// the whole runtime and publishes the best outcome seen.
func (t *Tournament[S]) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rep := Report{RaceID: uuid.New(), Mode: ModeTournament}
	l := t.opts.logger
	raceID := logger.String("race_id", rep.RaceID.String())

	if len(t.entrants) == 0 || t.format == nil {
		return rep, ErrNoEntrants
	}

	entrantCtx, stopEntrants := context.WithCancel(ctx)
	defer stopEntrants()

	channels := make([]chan solver.Outcome[S], len(t.entrants))
	for i, e := range t.entrants {
		ch := make(chan solver.Outcome[S], t.opts.resultBuffer)
		channels[i] = ch
		go t.runEntrant(entrantCtx, e, ch)
		rep.Spawned++
	}
	l.Info(ctx, "entrants started", raceID, logger.Int("entrants", len(t.entrants)), logger.Duration("runtime", t.runtime))

	tracker := ranking.NewTracker[S](t.direction)
	sweep := func() {
		for i, ch := range channels {
			name := t.entrants[i].Name
			for drained := false; !drained; {
				select {
				case o := <-ch:
					improved := tracker.Offer(name, o)
					metrics.RecordOutcome(name, o.Weight, improved)
					record(ctx, t.opts, name, o.Weight)
					l.Debug(ctx, "received solution", raceID,
						logger.String("entrant", name),
						logger.Uint64("weight", o.Weight),
						logger.Bool("improved", improved),
					)
				default:
					drained = true
				}
			}
		}
	}

	ticker := time.NewTicker(t.opts.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(t.runtime)
	defer deadline.Stop()

wait:
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-deadline.C:
			break wait
		case <-ctx.Done():
			l.Warn(ctx, "tournament interrupted, finishing with the best so far", raceID)
			break wait
		}
	}
	sweep()
	stopEntrants()

	rep.Considered = tracker.Considered()
	rep.Improvements = tracker.Improvements()
	best, ok := tracker.Best()
	if !ok {
		metrics.RecordRaceFinished(rep.Mode, metrics.ResultNoSolution, msSince(start))
		rep.Elapsed = time.Since(start)
		return rep, fmt.Errorf("%w: %d entrants", ErrNoSolution, len(t.entrants))
	}
	rep.Source = tracker.Source()

	return publish(ctx, t.opts, start, rep, t.format(best.Solution), best.Weight)
}

// runEntrant contains a panicking entrant so it cannot take the tournament down.
func (t *Tournament[S]) runEntrant(ctx context.Context, e Entrant[S], ch chan solver.Outcome[S]) {
	defer func() {
		if p := recover(); p != nil {
			t.opts.logger.Error(ctx, "entrant panicked",
				logger.String("entrant", e.Name), logger.Any("panic", p))
		}
	}()
	e.Run(ctx, worker.NewSender(e.Name, ch))
}
