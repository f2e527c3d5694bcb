package queue

// Option applies a configuration option to a Pending queue.
type Option func(*options)

type options struct {
	capacity int
	report   func(n int)
}

// WithCapacity bounds the queue. Zero or negative means unbounded.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithLengthReporter replaces the metrics hook called after every change.
func WithLengthReporter(report func(n int)) Option {
	return func(o *options) {
		if report != nil {
			o.report = report
		}
	}
}
