package flowshop

import (
	"context"
	"math/rand"
	"sync/atomic"
)

// Default bounds for generated processing times.
const (
	DefaultMinTime = 1
	DefaultMaxTime = 99
)

// Source says where a solver's instance comes from: a file when Path is set,
// otherwise a random Jobs x Machines instance derived from Seed.
type Source struct {
	Path     string
	Jobs     int
	Machines int
	Seed     int64
}

// Load returns the instance described by s.
func (s Source) Load(ctx context.Context) (*Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path != "" {
		return ReadFile(s.Path)
	}
	return Random(s.Jobs, s.Machines, DefaultMinTime, DefaultMaxTime, rand.New(rand.NewSource(s.Seed)))
}

// seeder hands out one distinct seed per Solve call so concurrent workers
// explore different starting points.
type seeder struct {
	base  int64
	calls atomic.Int64
}

func (s *seeder) rng() *rand.Rand {
	return rand.New(rand.NewSource(s.base + s.calls.Add(1)))
}
