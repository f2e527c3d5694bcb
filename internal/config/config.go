// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and ARENA_ env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Race modes understood by cmd/arena.
const (
	ModeSingle     = "single"
	ModeTournament = "tournament"
)

const (
	defaultBudgetSeconds  = 10
	defaultPollIntervalMS = 500
	defaultResultBuffer   = 64
	defaultOutputPath     = "output"
	maxDefaultWorkers     = 255
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// Mode selects a single-solver race or a tournament of different solvers.
	Mode string `koanf:"mode"`

	// BattleMode races workers; false runs one verbose solve.
	BattleMode bool `koanf:"battle_mode"`
	// NumWorkers sets the worker pool size.
	NumWorkers uint8 `koanf:"num_workers"`
	// RestartWorkers respawns a worker each time one finishes.
	RestartWorkers bool `koanf:"restart_workers"`
	// RunTimeBudgetSeconds is the race deadline in seconds.
	RunTimeBudgetSeconds uint16 `koanf:"run_time_budget_seconds"`
	// MaximizeWeight ranks higher weights first.
	MaximizeWeight bool `koanf:"maximize_weight"`

	// OutputPath is the result artifact, overwritten each run.
	OutputPath string `koanf:"output_path"`
	// PollIntervalMS is the tournament sweep interval.
	PollIntervalMS int `koanf:"poll_interval_ms"`
	// ResultBuffer is the per-entrant channel capacity in a tournament.
	ResultBuffer int `koanf:"result_buffer"`

	// MetricsAddr serves the status API (/metrics, /standings) during the race
	// when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
	// MetricsTextfile dumps the final metrics to this path when non-empty.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// InputPath points at the problem instance; empty generates one from Seed.
	InputPath string `koanf:"input_path"`
	// Seed drives instance generation and solver randomness.
	Seed int64 `koanf:"seed"`
	// InstanceJobs and InstanceMachines size generated instances.
	InstanceJobs     int `koanf:"instance_jobs"`
	InstanceMachines int `koanf:"instance_machines"`
}

// New creates a Config with defaults.
func New() *Config {
	workers := runtime.NumCPU()
	if workers > maxDefaultWorkers {
		workers = maxDefaultWorkers
	}
	return &Config{
		LogLevel:             "info",
		Mode:                 ModeSingle,
		BattleMode:           false,
		NumWorkers:           uint8(workers),
		RestartWorkers:       true,
		RunTimeBudgetSeconds: defaultBudgetSeconds,
		MaximizeWeight:       false,
		OutputPath:           defaultOutputPath,
		PollIntervalMS:       defaultPollIntervalMS,
		ResultBuffer:         defaultResultBuffer,
		Seed:                 1,
		InstanceJobs:         20,
		InstanceMachines:     5,
	}
}

// Race extracts the race parameters.
func (c *Config) Race() Race {
	return Race{
		BattleMode:           c.BattleMode,
		NumWorkers:           c.NumWorkers,
		RestartWorkers:       c.RestartWorkers,
		RunTimeBudgetSeconds: c.RunTimeBudgetSeconds,
		MaximizeWeight:       c.MaximizeWeight,
	}
}

// PollInterval returns the tournament sweep interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSingle, ModeTournament:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("%w: poll_interval_ms must be > 0", ErrInvalidConfig)
	}
	if c.ResultBuffer < 0 {
		return fmt.Errorf("%w: result_buffer must be >= 0", ErrInvalidConfig)
	}
	if c.Mode == ModeTournament && c.RunTimeBudgetSeconds == 0 {
		return fmt.Errorf("%w: run_time_budget_seconds must be > 0 for a tournament", ErrInvalidConfig)
	}
	if c.InputPath == "" && (c.InstanceJobs <= 0 || c.InstanceMachines <= 0) {
		return fmt.Errorf("%w: instance_jobs and instance_machines must be > 0", ErrInvalidConfig)
	}
	return c.Race().Validate()
}
