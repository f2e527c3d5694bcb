package flowshop

import "fmt"

// Evaluator computes makespans, reusing its scratch buffer. It is not safe
// for concurrent use; each worker builds its own.
type Evaluator struct {
	inst       *Instance
	completion []int
}

// NewEvaluator validates inst and returns an evaluator for it.
func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst, completion: make([]int, inst.Machines)}, nil
}

// Makespan returns the completion time of the last job on the last machine.
func (e *Evaluator) Makespan(perm []int) (int, error) {
	if err := ValidatePermutation(perm, e.inst.Jobs); err != nil {
		return 0, err
	}
	return e.makespan(perm), nil
}

// makespan skips validation for permutations built internally.
func (e *Evaluator) makespan(perm []int) int {
	for m := range e.completion {
		e.completion[m] = 0
	}
	for _, job := range perm {
		e.completion[0] += e.inst.Time(job, 0)
		for m := 1; m < e.inst.Machines; m++ {
			start := max(e.completion[m-1], e.completion[m])
			e.completion[m] = start + e.inst.Time(job, m)
		}
	}
	return e.completion[e.inst.Machines-1]
}

// Makespan evaluates perm on inst.
func Makespan(inst *Instance, perm []int) (int, error) {
	e, err := NewEvaluator(inst)
	if err != nil {
		return 0, fmt.Errorf("makespan: %w", err)
	}
	return e.Makespan(perm)
}
