// Package ranking decides which scored outcome is the best seen so far.
package ranking

import "github.com/okian/arena/internal/domain/solver"

// Direction selects whether higher or lower weights rank first.
type Direction int

const (
	// Minimize ranks lower weights first.
	Minimize Direction = iota
	// Maximize ranks higher weights first.
	Maximize
)

// DirectionFor maps the maximize flag of a race configuration to a Direction.
func DirectionFor(maximize bool) Direction {
	if maximize {
		return Maximize
	}
	return Minimize
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Better reports whether candidate is strictly better than incumbent.
// Equal weights are never better.
func (d Direction) Better(candidate, incumbent uint64) bool {
	if d == Maximize {
		return candidate > incumbent
	}
	return candidate < incumbent
}

// Tracker holds the current best outcome of a race.
//
// A Tracker is owned by a single goroutine, the race orchestrator, and is not
// safe for concurrent use.
type Tracker[S any] struct {
	direction    Direction
	best         solver.Outcome[S]
	source       string
	has          bool
	considered   int
	improvements int
}

// NewTracker creates an empty tracker ranking in direction d.
func NewTracker[S any](d Direction) *Tracker[S] {
	return &Tracker[S]{direction: d}
}

// Offer considers o, produced by source, and reports whether it became the new best.
// The first outcome is always accepted; later ones only when strictly better.
func (t *Tracker[S]) Offer(source string, o solver.Outcome[S]) bool {
	t.considered++
	if t.has && !t.direction.Better(o.Weight, t.best.Weight) {
		return false
	}
	t.best = o
	t.source = source
	t.has = true
	t.improvements++
	return true
}

// Best returns the current best outcome and whether one exists.
func (t *Tracker[S]) Best() (solver.Outcome[S], bool) {
	return t.best, t.has
}

// Source returns the name of whoever produced the current best.
func (t *Tracker[S]) Source() string { return t.source }

// Considered returns the number of outcomes offered so far.
func (t *Tracker[S]) Considered() int { return t.considered }

// Improvements returns how many times the best was set, the first one included.
func (t *Tracker[S]) Improvements() int { return t.improvements }

// Direction returns the ranking direction.
func (t *Tracker[S]) Direction() Direction { return t.direction }
