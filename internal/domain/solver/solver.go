// Package solver defines the contract a problem implementation must satisfy
// to be raced by the arena schedulers.
package solver

import "context"

// Outcome pairs a produced solution with the weight used for ranking.
// An Outcome is immutable once a worker has produced it.
type Outcome[S any] struct {
	Solution S
	Weight   uint64
}

// Solver is the capability a problem implementation supplies.
//
// ParseInput builds the problem instance once per race. Solve computes exactly
// one scored candidate from an input the caller owns exclusively; it may be
// randomized and may run for an unbounded amount of time. FormatSolution
// renders the final best solution as text and is called once.
type Solver[I, S any] interface {
	ParseInput(ctx context.Context) (I, error)
	Solve(ctx context.Context, input I) (Outcome[S], error)
	FormatSolution(solution S) string
}

// InputCloner is implemented by solvers whose parsed input holds references
// (slices, maps, pointers) and therefore needs a deep copy per worker.
type InputCloner[I any] interface {
	CloneInput(input I) I
}

// Clone returns an independent copy of input for one worker. Solvers without
// an InputCloner get a plain value copy.
func Clone[I, S any](s Solver[I, S], input I) I {
	if c, ok := s.(InputCloner[I]); ok {
		return c.CloneInput(input)
	}
	return input
}

// Formatter renders a solution as text.
type Formatter[S any] func(solution S) string
