package config

import (
	"fmt"
	"time"
)

// FinalizeMargin is reserved at the end of a battle-mode budget for
// formatting and writing the result.
const FinalizeMargin = 2 * time.Second

// Race holds the immutable parameters of one race.
type Race struct {
	// BattleMode races workers; when false a single solve runs verbosely.
	BattleMode bool
	// NumWorkers is the size of the worker pool.
	NumWorkers uint8
	// RestartWorkers replaces every finished worker with a fresh one.
	RestartWorkers bool
	// RunTimeBudgetSeconds is the nominal race deadline.
	RunTimeBudgetSeconds uint16
	// MaximizeWeight ranks higher weights first.
	MaximizeWeight bool
}

// NewRace builds race parameters in battle mode. Use WithBattleMode on the
// result to switch to the verbose single-shot mode.
func NewRace(numWorkers uint8, restartWorkers bool, runTimeBudgetSeconds uint16, maximizeWeight bool) Race {
	return Race{
		BattleMode:           true,
		NumWorkers:           numWorkers,
		RestartWorkers:       restartWorkers,
		RunTimeBudgetSeconds: runTimeBudgetSeconds,
		MaximizeWeight:       maximizeWeight,
	}
}

// WithBattleMode returns a copy of r with the battle mode toggle set.
func (r Race) WithBattleMode(on bool) Race {
	r.BattleMode = on
	return r
}

// Budget returns the nominal run time budget.
func (r Race) Budget() time.Duration {
	return time.Duration(r.RunTimeBudgetSeconds) * time.Second
}

// PollingWindow returns how long the scheduler polls workers: the budget
// minus FinalizeMargin.
func (r Race) PollingWindow() time.Duration {
	w := r.Budget() - FinalizeMargin
	if w < 0 {
		return 0
	}
	return w
}

// Validate checks the race invariants.
func (r Race) Validate() error {
	if !r.BattleMode {
		return nil
	}
	if r.NumWorkers == 0 {
		return fmt.Errorf("%w: num_workers must be > 0 in battle mode", ErrInvalidConfig)
	}
	if r.Budget() <= FinalizeMargin {
		return fmt.Errorf("%w: run_time_budget_seconds must be > %d in battle mode (got %d)",
			ErrInvalidConfig, int(FinalizeMargin/time.Second), r.RunTimeBudgetSeconds)
	}
	return nil
}
