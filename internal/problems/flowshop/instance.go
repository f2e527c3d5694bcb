// Package flowshop implements the permutation flow-shop problem as a racing
// demo: n jobs visit m machines in the same order and a schedule is the job
// order. The weight of a schedule is its makespan, to be minimized.
package flowshop

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidInstance is returned for malformed instances.
var ErrInvalidInstance = errors.New("invalid flow-shop instance")

// Instance holds processing times in job-major order.
type Instance struct {
	Jobs      int   `yaml:"jobs"`
	Machines  int   `yaml:"machines"`
	ProcTimes []int `yaml:"proc_times"` // len Jobs*Machines
}

// NewInstance validates and returns an instance.
func NewInstance(jobs, machines int, procTimes []int) (*Instance, error) {
	inst := &Instance{Jobs: jobs, Machines: machines, ProcTimes: procTimes}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate checks dimensions and non-negative times.
func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: nil instance", ErrInvalidInstance)
	}
	if inst.Jobs <= 0 {
		return fmt.Errorf("%w: jobs must be > 0 (got %d)", ErrInvalidInstance, inst.Jobs)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("%w: machines must be > 0 (got %d)", ErrInvalidInstance, inst.Machines)
	}
	if len(inst.ProcTimes) != inst.Jobs*inst.Machines {
		return fmt.Errorf("%w: expected %d processing times (got %d)",
			ErrInvalidInstance, inst.Jobs*inst.Machines, len(inst.ProcTimes))
	}
	for i, v := range inst.ProcTimes {
		if v < 0 {
			return fmt.Errorf("%w: processing time %d is negative (%d)", ErrInvalidInstance, i, v)
		}
	}
	return nil
}

// Time returns the processing time of job on machine.
func (inst *Instance) Time(job, machine int) int {
	return inst.ProcTimes[job*inst.Machines+machine]
}

// Clone returns a deep copy.
func (inst *Instance) Clone() *Instance {
	if inst == nil {
		return nil
	}
	pt := make([]int, len(inst.ProcTimes))
	copy(pt, inst.ProcTimes)
	return &Instance{Jobs: inst.Jobs, Machines: inst.Machines, ProcTimes: pt}
}

// Random builds an instance with times drawn uniformly from [minTime, maxTime].
func Random(jobs, machines, minTime, maxTime int, rng *rand.Rand) (*Instance, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidInstance)
	}
	if minTime < 0 || maxTime < minTime {
		return nil, fmt.Errorf("%w: bad time bounds [%d, %d]", ErrInvalidInstance, minTime, maxTime)
	}
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: jobs and machines must be > 0 (got %dx%d)", ErrInvalidInstance, jobs, machines)
	}
	pt := make([]int, jobs*machines)
	span := maxTime - minTime + 1
	for i := range pt {
		pt[i] = minTime + rng.Intn(span)
	}
	return NewInstance(jobs, machines, pt)
}
