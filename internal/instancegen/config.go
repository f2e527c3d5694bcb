// Package instancegen writes batches of random flow-shop instances for
// exercising the arena solvers.
package instancegen

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/arena/internal/problems/flowshop"
)

// ErrInvalidConfig is returned for unusable generator settings.
var ErrInvalidConfig = errors.New("invalid generator config")

// Config holds configuration for one generation batch.
type Config struct {
	Count    int               // Number of instances to write
	Jobs     int               // Jobs per instance
	Machines int               // Machines per instance
	MinTime  int               // Smallest processing time
	MaxTime  int               // Largest processing time
	Seed     int64             // Seed of the first instance; instance i uses Seed+i
	OutDir   string            // Target directory, created if missing
	Prefix   string            // File name prefix
	Encoding flowshop.Encoding // text or yaml
	Workers  int               // Concurrent writers
	Verify   bool              // Read every file back after writing
}

// Stats holds batch statistics.
type Stats struct {
	Generated int
	Verified  int
	Files     []string
	Duration  time.Duration
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case c.Count < 1:
		return fmt.Errorf("%w: count must be > 0", ErrInvalidConfig)
	case c.Jobs < 1 || c.Machines < 1:
		return fmt.Errorf("%w: jobs and machines must be > 0", ErrInvalidConfig)
	case c.MinTime < 0 || c.MaxTime < c.MinTime:
		return fmt.Errorf("%w: bad time bounds [%d, %d]", ErrInvalidConfig, c.MinTime, c.MaxTime)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be > 0", ErrInvalidConfig)
	case c.OutDir == "":
		return fmt.Errorf("%w: output directory must be set", ErrInvalidConfig)
	}
	switch c.Encoding {
	case flowshop.EncodingText, flowshop.EncodingYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Encoding)
	}
}
