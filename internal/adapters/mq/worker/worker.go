// Package worker runs solver attempts on their own goroutines.
//
// A Handle is the scheduler's reference to one in-flight attempt. The attempt
// delivers at most one result on a private buffered channel, so the worker
// never blocks on a scheduler that stopped listening.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/domain/solver"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// State describes what TryReceive found.
type State int

const (
	// Pending means the worker is still running.
	Pending State = iota
	// Done means an outcome was received.
	Done
	// Failed means the solver returned an error or panicked.
	Failed
)

type result[S any] struct {
	outcome  solver.Outcome[S]
	err      error
	panicked bool
	latency  time.Duration
}

// Handle references one in-flight solve.
type Handle[S any] struct {
	ID      uuid.UUID
	Name    string
	results chan result[S]
	cancel  context.CancelFunc
	logger  logger.Logger
}

// Spawn starts one solve of s on an independent copy of input.
// The worker context is derived from ctx; Cancel or ctx cancellation asks a
// cooperative solver to stop, a solver ignoring it is simply abandoned.
func Spawn[I, S any](ctx context.Context, s solver.Solver[I, S], input I, opts ...Option) *Handle[S] {
	cfg := newSettings(opts)
	id := uuid.New()
	wctx, cancel := context.WithCancel(ctx)

	h := &Handle[S]{
		ID:      id,
		Name:    cfg.name,
		results: make(chan result[S], 1),
		cancel:  cancel,
		logger:  cfg.logger,
	}

	own := solver.Clone(s, input)
	metrics.RecordWorkerSpawned()
	go func() {
		h.results <- solve(wctx, s, own)
		if cfg.notify != nil {
			select {
			case cfg.notify <- struct{}{}:
			default:
			}
		}
	}()

	h.logger.Debug(ctx, "worker spawned", logger.String("worker_id", id.String()), logger.String("name", cfg.name))
	return h
}

// TryReceive checks for the worker's result without blocking.
// Pending leaves the handle usable; Done and Failed consume it.
func (h *Handle[S]) TryReceive(ctx context.Context) (solver.Outcome[S], State, error) {
	select {
	case r := <-h.results:
		h.cancel()
		if r.err != nil {
			reason := metrics.FailureError
			if r.panicked {
				reason = metrics.FailurePanic
			}
			metrics.RecordWorkerFailed(reason)
			h.logger.Warn(ctx, "worker failed",
				logger.String("worker_id", h.ID.String()),
				logger.String("reason", reason),
				logger.Error(r.err),
			)
			return solver.Outcome[S]{}, Failed, r.err
		}
		metrics.RecordWorkerFinished(float64(r.latency.Milliseconds()))
		return r.outcome, Done, nil
	default:
		return solver.Outcome[S]{}, Pending, nil
	}
}

// Cancel signals the worker context. It is safe to call more than once.
func (h *Handle[S]) Cancel() {
	h.cancel()
}

// solve runs one Solve call and turns a panic into an error.
func solve[I, S any](ctx context.Context, s solver.Solver[I, S], input I) (r result[S]) {
	start := time.Now()
	defer func() {
		r.latency = time.Since(start)
		if p := recover(); p != nil {
			r = result[S]{err: fmt.Errorf("%w: %v", ErrPanic, p), panicked: true, latency: time.Since(start)}
		}
	}()
	o, err := s.Solve(ctx, input)
	return result[S]{outcome: o, err: err}
}
