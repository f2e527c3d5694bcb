package solver

import (
	"context"
	"errors"
)

// ErrIncomplete is returned by Funcs when a required function is missing.
var ErrIncomplete = errors.New("solver function not provided")

// Funcs adapts plain functions to the Solver interface.
type Funcs[I, S any] struct {
	Parse  func(ctx context.Context) (I, error)
	Run    func(ctx context.Context, input I) (Outcome[S], error)
	Format func(solution S) string
	// Copy is optional; see InputCloner.
	Copy func(input I) I
}

// ParseInput implements Solver.
func (f Funcs[I, S]) ParseInput(ctx context.Context) (I, error) {
	if f.Parse == nil {
		var zero I
		return zero, ErrIncomplete
	}
	return f.Parse(ctx)
}

// Solve implements Solver.
func (f Funcs[I, S]) Solve(ctx context.Context, input I) (Outcome[S], error) {
	if f.Run == nil {
		return Outcome[S]{}, ErrIncomplete
	}
	return f.Run(ctx, input)
}

// FormatSolution implements Solver.
func (f Funcs[I, S]) FormatSolution(solution S) string {
	if f.Format == nil {
		return ""
	}
	return f.Format(solution)
}

// CloneInput implements InputCloner.
func (f Funcs[I, S]) CloneInput(input I) I {
	if f.Copy == nil {
		return input
	}
	return f.Copy(input)
}
