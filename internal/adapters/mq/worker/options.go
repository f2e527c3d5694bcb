package worker

import (
	"github.com/okian/arena/pkg/logger"
)

// Option applies a configuration option to a spawned worker.
type Option func(*settings)

type settings struct {
	name   string
	logger logger.Logger
	notify chan<- struct{}
}

func newSettings(opts []Option) settings {
	s := settings{name: "worker"}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("worker")
	}
	return s
}

// WithName sets the worker name used in logs and metrics labels.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotify registers a channel that receives a non-blocking signal each
// time the worker finishes. Many workers may share one channel; its buffer
// should be at least one.
func WithNotify(ch chan<- struct{}) Option {
	return func(s *settings) {
		s.notify = ch
	}
}
