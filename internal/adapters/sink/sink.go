// Package sink publishes the final result of a race: it prints the formatted
// solution for a human and persists it verbatim to a fixed-name artifact.
package sink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/arena/pkg/logger"
)

const (
	// DefaultPath is the artifact name in the working directory.
	DefaultPath = "output"
	filePerm    = 0o644
)

// ErrEmit wraps every failure to publish a result.
var ErrEmit = errors.New("emit result failed")

// Sink consumes the final formatted solution.
type Sink interface {
	// Emit prints formatted and persists it, replacing earlier contents.
	Emit(ctx context.Context, formatted string) error
	// Report prints the final weight and elapsed wall-clock time.
	Report(ctx context.Context, weight uint64, elapsed time.Duration) error
}

// FileSink writes the result to stdout and to a file.
type FileSink struct {
	path   string
	stdout io.Writer
	logger logger.Logger
}

// Option applies a configuration option to a FileSink.
type Option func(*FileSink)

// WithPath sets the artifact path.
func WithPath(path string) Option {
	return func(s *FileSink) {
		if path != "" {
			s.path = path
		}
	}
}

// WithStdout replaces the console writer.
func WithStdout(w io.Writer) Option {
	return func(s *FileSink) {
		if w != nil {
			s.stdout = w
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileSink) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileSink creates a sink writing to DefaultPath and os.Stdout.
func NewFileSink(opts ...Option) *FileSink {
	s := &FileSink{path: DefaultPath, stdout: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("sink")
	}
	return s
}

// Path returns the artifact path.
func (s *FileSink) Path() string { return s.path }

// Emit implements Sink.
func (s *FileSink) Emit(ctx context.Context, formatted string) error {
	if _, err := fmt.Fprintln(s.stdout, formatted); err != nil {
		return fmt.Errorf("%w: print: %w", ErrEmit, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrEmit, s.path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(formatted); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %w", ErrEmit, s.path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: flush %s: %w", ErrEmit, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrEmit, s.path, err)
	}

	s.logger.Debug(ctx, "result written", logger.String("path", s.path), logger.Int("bytes", len(formatted)))
	return nil
}

// Report implements Sink.
func (s *FileSink) Report(ctx context.Context, weight uint64, elapsed time.Duration) error {
	_, err := fmt.Fprintf(s.stdout, "Successfully solved input\n\nWeight: %d\nElapsed: %d milliseconds\n",
		weight, elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("%w: report: %w", ErrEmit, err)
	}
	return nil
}
