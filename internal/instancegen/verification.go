package instancegen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okian/arena/internal/problems/flowshop"
)

// ErrMismatch means a file read back differs from what was written.
var ErrMismatch = errors.New("instance file does not match generated instance")

// verify reads every file back and compares it with the generated instance.
func verify(files []string, want []*flowshop.Instance) (int, error) {
	ok := 0
	for i, path := range files {
		got, err := flowshop.ReadFile(path)
		if err != nil {
			return ok, fmt.Errorf("verify %s: %w", path, err)
		}
		w := want[i]
		if got.Jobs != w.Jobs || got.Machines != w.Machines || !slices.Equal(got.ProcTimes, w.ProcTimes) {
			return ok, fmt.Errorf("%w: %s", ErrMismatch, path)
		}
		ok++
	}
	return ok, nil
}
