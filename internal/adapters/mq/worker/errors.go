package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrPanic        = errors.New("solver panicked")
	ErrInvalidCount = errors.New("worker count must be > 0")
)
