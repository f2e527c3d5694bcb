package flowshop

import (
	"context"

	"github.com/okian/arena/internal/domain/solver"
)

// ctxCheckEvery bounds how many makespan evaluations run between context checks.
const ctxCheckEvery = 256

// HillClimb starts from a random job order and applies first-improvement
// pairwise swaps until no swap shortens the makespan.
type HillClimb struct {
	src   Source
	seeds seeder
}

var (
	_ solver.Solver[*Instance, []int] = (*HillClimb)(nil)
	_ solver.InputCloner[*Instance]   = (*HillClimb)(nil)
)

// NewHillClimb creates a hill-climbing solver over src.
func NewHillClimb(src Source) *HillClimb {
	h := &HillClimb{src: src}
	h.seeds.base = src.Seed
	return h
}

// ParseInput implements solver.Solver.
func (h *HillClimb) ParseInput(ctx context.Context) (*Instance, error) {
	return h.src.Load(ctx)
}

// CloneInput implements solver.InputCloner.
func (h *HillClimb) CloneInput(inst *Instance) *Instance {
	return inst.Clone()
}

// FormatSolution implements solver.Solver.
func (h *HillClimb) FormatSolution(perm []int) string {
	return Format(perm)
}

// Solve implements solver.Solver. It returns ctx.Err() when interrupted.
func (h *HillClimb) Solve(ctx context.Context, inst *Instance) (solver.Outcome[[]int], error) {
	eval, err := NewEvaluator(inst)
	if err != nil {
		return solver.Outcome[[]int]{}, err
	}
	rng := h.seeds.rng()
	perm := randomPermutation(inst.Jobs, rng)
	cost := eval.makespan(perm)

	evals := 0
	for improved := true; improved; {
		improved = false
		for i := 0; i < len(perm)-1; i++ {
			for j := i + 1; j < len(perm); j++ {
				if evals++; evals%ctxCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return solver.Outcome[[]int]{}, err
					}
				}
				perm[i], perm[j] = perm[j], perm[i]
				if c := eval.makespan(perm); c < cost {
					cost = c
					improved = true
					continue
				}
				perm[i], perm[j] = perm[j], perm[i]
			}
		}
	}
	return solver.Outcome[[]int]{Solution: perm, Weight: uint64(cost)}, nil
}
