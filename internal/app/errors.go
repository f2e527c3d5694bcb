package app

import (
	"errors"

	"github.com/okian/arena/internal/adapters/sink"
)

// Sentinel errors surfaced by races. Each one is fatal for the run.
var (
	// ErrParseInput means the problem instance could not be built; no worker was started.
	ErrParseInput = errors.New("parse input failed")
	// ErrNoSolution means the deadline passed without any outcome.
	ErrNoSolution = errors.New("no solution found in time")
	// ErrEmit means the final result could not be published.
	ErrEmit = sink.ErrEmit
	// ErrNoEntrants means a tournament was started without programs or formatter.
	ErrNoEntrants = errors.New("tournament needs at least one entrant and a formatter")
)
