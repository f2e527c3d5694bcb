package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/adapters/repository"
)

// Race modes as they appear in reports, logs and metrics.
const (
	ModeBattle     = "battle"
	ModeVerbose    = "verbose"
	ModeTournament = "tournament"
)

// Report summarizes a finished race.
type Report struct {
	RaceID uuid.UUID
	Mode   string
	// Weight and Source describe the winning outcome.
	Weight uint64
	Source string
	// Elapsed is measured from race start to the end of publishing.
	Elapsed time.Duration
	// Considered counts outcomes received; Improvements counts best replacements,
	// the first best included.
	Considered   int
	Improvements int
	// Spawned and Failed count workers started and lost to errors or panics.
	Spawned int
	Failed  int
	// Standings holds the best sources when a standings store is configured.
	Standings []repository.Entry
}
