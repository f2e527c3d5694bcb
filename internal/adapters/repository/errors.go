package repository

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound     = errors.New("source not found")
	ErrInvalidLimit = errors.New("invalid standings limit")
	ErrEmptySource  = errors.New("empty source name")
)
