package flowshop

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/arena/internal/domain/solver"
)

// Neighborhood selects the move applied at each annealing step.
type Neighborhood string

// Supported neighborhoods.
const (
	NeighborhoodSwap   Neighborhood = "swap"
	NeighborhoodInsert Neighborhood = "insert"
)

// AnnealingConfig tunes the cooling schedule.
type AnnealingConfig struct {
	IterationsPerJob int
	InitialTemp      float64
	FinalTemp        float64
	Alpha            float64
	Neighborhood     Neighborhood
}

// DefaultAnnealingConfig returns a schedule that suits instances of a few dozen jobs.
func DefaultAnnealingConfig() AnnealingConfig {
	return AnnealingConfig{
		IterationsPerJob: 2500,
		InitialTemp:      2000.0,
		FinalTemp:        0.5,
		Alpha:            0.995,
		Neighborhood:     NeighborhoodSwap,
	}
}

// Validate checks the schedule.
func (c AnnealingConfig) Validate() error {
	switch {
	case c.IterationsPerJob <= 0:
		return fmt.Errorf("iterations per job must be > 0 (got %d)", c.IterationsPerJob)
	case c.InitialTemp <= 0 || c.FinalTemp <= 0:
		return fmt.Errorf("temperatures must be > 0 (got %g, %g)", c.InitialTemp, c.FinalTemp)
	case c.FinalTemp >= c.InitialTemp:
		return fmt.Errorf("final temperature must be below the initial one (got %g >= %g)", c.FinalTemp, c.InitialTemp)
	case c.Alpha <= 0 || c.Alpha >= 1:
		return fmt.Errorf("alpha must be in (0,1) (got %g)", c.Alpha)
	}
	switch c.Neighborhood {
	case NeighborhoodSwap, NeighborhoodInsert:
		return nil
	default:
		return fmt.Errorf("unknown neighborhood %q", c.Neighborhood)
	}
}

// Annealing is a simulated-annealing solver with geometric cooling.
type Annealing struct {
	src   Source
	cfg   AnnealingConfig
	seeds seeder
}

var (
	_ solver.Solver[*Instance, []int] = (*Annealing)(nil)
	_ solver.InputCloner[*Instance]   = (*Annealing)(nil)
)

// NewAnnealing creates an annealing solver over src.
func NewAnnealing(src Source, cfg AnnealingConfig) (*Annealing, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Annealing{src: src, cfg: cfg}
	// distinct seed stream from HillClimb on the same Source
	a.seeds.base = src.Seed ^ 0x5eed
	return a, nil
}

// ParseInput implements solver.Solver.
func (a *Annealing) ParseInput(ctx context.Context) (*Instance, error) {
	return a.src.Load(ctx)
}

// CloneInput implements solver.InputCloner.
func (a *Annealing) CloneInput(inst *Instance) *Instance {
	return inst.Clone()
}

// FormatSolution implements solver.Solver.
func (a *Annealing) FormatSolution(perm []int) string {
	return Format(perm)
}

// Solve implements solver.Solver. It returns ctx.Err() when interrupted.
func (a *Annealing) Solve(ctx context.Context, inst *Instance) (solver.Outcome[[]int], error) {
	eval, err := NewEvaluator(inst)
	if err != nil {
		return solver.Outcome[[]int]{}, err
	}
	rng := a.seeds.rng()
	n := inst.Jobs
	maxIter := a.cfg.IterationsPerJob * n

	curr := randomPermutation(n, rng)
	cand := make([]int, n)
	currCost := eval.makespan(curr)
	best := make([]int, n)
	copy(best, curr)
	bestCost := currCost

	temp := a.cfg.InitialTemp
	for iter := 0; iter < maxIter && temp > a.cfg.FinalTemp; iter++ {
		if iter%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return solver.Outcome[[]int]{}, err
			}
		}

		copy(cand, curr)
		if a.cfg.Neighborhood == NeighborhoodInsert {
			neighborInsert(cand, rng)
		} else {
			neighborSwap(cand, rng)
		}
		candCost := eval.makespan(cand)

		// Metropolis criterion
		if delta := candCost - currCost; delta <= 0 || rng.Float64() < math.Exp(-float64(delta)/temp) {
			curr, cand = cand, curr
			currCost = candCost
			if currCost < bestCost {
				bestCost = currCost
				copy(best, curr)
			}
		}
		temp *= a.cfg.Alpha
	}
	return solver.Outcome[[]int]{Solution: best, Weight: uint64(bestCost)}, nil
}
