package flowshop

import (
	"fmt"
	"math/rand"
)

// ValidatePermutation checks that perm is a permutation of 0..n-1.
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("permutation length must be %d (got %d)", n, len(perm))
	}
	seen := make([]bool, n)
	for i, v := range perm {
		if v < 0 || v >= n {
			return fmt.Errorf("perm[%d]=%d out of range [0,%d)", i, v, n)
		}
		if seen[v] {
			return fmt.Errorf("duplicate job %d in permutation", v)
		}
		seen[v] = true
	}
	return nil
}

// randomPermutation returns a shuffled 0..n-1.
func randomPermutation(n int, rng *rand.Rand) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// neighborSwap exchanges two distinct random positions.
func neighborSwap(p []int, rng *rand.Rand) {
	if len(p) < 2 {
		return
	}
	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}
	p[i], p[j] = p[j], p[i]
}

// neighborInsert moves the job at a random position to another one.
func neighborInsert(p []int, rng *rand.Rand) {
	n := len(p)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	val := p[i]
	if i < j {
		copy(p[i:j], p[i+1:j+1])
	} else {
		copy(p[j+1:i+1], p[j:i])
	}
	p[j] = val
}
