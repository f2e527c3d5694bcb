package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithSizeReporter replaces the hook told about the number of sources.
func WithSizeReporter(report func(int)) Option {
	return func(s *TreapStore) {
		if report != nil {
			s.reportSize = report
		}
	}
}
