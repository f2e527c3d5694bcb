package app

import (
	"time"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/adapters/sink"
	"github.com/okian/arena/pkg/logger"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultResultBuffer = 64
)

// Option applies a configuration option to a Race or a Tournament.
type Option func(*options)

type options struct {
	logger       logger.Logger
	sink         sink.Sink
	standings    repository.Store
	pollInterval time.Duration
	resultBuffer int
}

func newOptions(name string, opts []Option) options {
	o := options{
		pollInterval: defaultPollInterval,
		resultBuffer: defaultResultBuffer,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	o.logger = o.logger.Named(name)
	if o.sink == nil {
		o.sink = sink.NewFileSink(sink.WithLogger(o.logger))
	}
	return o
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSink sets where the final result goes.
func WithSink(s sink.Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithStandings records every outcome per source in store.
func WithStandings(store repository.Store) Option {
	return func(o *options) {
		o.standings = store
	}
}

// WithPollInterval sets the tournament sweep interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithResultBuffer sets the per-entrant channel capacity of a tournament.
func WithResultBuffer(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.resultBuffer = n
		}
	}
}
