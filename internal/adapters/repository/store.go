// Package repository keeps the standings of a race: the best weight reached
// by each outcome source, ordered best first.
package repository

import "context"

// Entry represents a standings row.
type Entry struct {
	Rank     int    `json:"rank"`
	Source   string `json:"source"`
	Weight   uint64 `json:"weight"`
	Outcomes int    `json:"outcomes"`
}

// Store provides read/write access to the standings.
type Store interface {
	// UpdateBest records an outcome of source and keeps weight when it is
	// strictly better than the source's current best. It reports whether
	// the best changed.
	UpdateBest(ctx context.Context, source string, weight uint64) (bool, error)

	// Rank returns the current rank and best weight of source.
	// Returns ErrNotFound if the source is unknown.
	Rank(ctx context.Context, source string) (Entry, error)

	// TopN returns the best n entries, best first.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of sources tracked.
	Count(ctx context.Context) int
}
