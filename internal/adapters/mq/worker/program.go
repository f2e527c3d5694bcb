package worker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/arena/internal/domain/solver"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Sender delivers outcomes from a tournament entrant to the scheduler.
type Sender[S any] struct {
	name string
	ch   chan<- solver.Outcome[S]
}

// NewSender wraps ch for the entrant called name.
func NewSender[S any](name string, ch chan<- solver.Outcome[S]) Sender[S] {
	return Sender[S]{name: name, ch: ch}
}

// Name returns the entrant name.
func (s Sender[S]) Name() string { return s.name }

// Send delivers o. It returns false once ctx is done, so an entrant never
// blocks forever after the tournament deadline.
func (s Sender[S]) Send(ctx context.Context, o solver.Outcome[S]) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case s.ch <- o:
		return true
	case <-ctx.Done():
		return false
	}
}

// Register parses the input of sv once and starts n workers that solve it
// and send every outcome through out. With restart set, each worker keeps
// solving until ctx ends; otherwise it stops after one attempt. A failed
// attempt ends its worker. Register returns as soon as the workers are
// started.
func Register[I, S any](ctx context.Context, out Sender[S], sv solver.Solver[I, S], n int, restart bool, opts ...Option) error {
	if n < 1 {
		return ErrInvalidCount
	}
	cfg := newSettings(append([]Option{WithName(out.Name())}, opts...))

	input, err := sv.ParseInput(ctx)
	if err != nil {
		return fmt.Errorf("parse input for %s: %w", out.Name(), err)
	}

	for i := 0; i < n; i++ {
		l := cfg.logger.Named(cfg.name + "-" + strconv.Itoa(i))
		go func() {
			for {
				metrics.RecordWorkerSpawned()
				r := solve(ctx, sv, solver.Clone(sv, input))
				if r.err != nil {
					reason := metrics.FailureError
					if r.panicked {
						reason = metrics.FailurePanic
					}
					metrics.RecordWorkerFailed(reason)
					l.Warn(ctx, "solve failed, worker stops", logger.String("reason", reason), logger.Error(r.err))
					return
				}
				metrics.RecordWorkerFinished(float64(r.latency.Milliseconds()))
				if !out.Send(ctx, r.outcome) {
					return
				}
				if !restart || ctx.Err() != nil {
					return
				}
			}
		}()
	}

	cfg.logger.Info(ctx, "program workers started",
		logger.String("program", out.Name()),
		logger.Int("workers", n),
		logger.Bool("restart", restart),
	)
	return nil
}
