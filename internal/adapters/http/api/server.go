package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/okian/arena/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Serve runs the status API on addr until ctx is done, then shuts down
// gracefully. ready, when not nil, receives the bound address once the
// listener is open.
func Serve(ctx context.Context, addr string, deps Dependencies, ready chan<- net.Addr) error {
	l := logger.Get().Named("api")

	mux := http.NewServeMux()
	NewServer(deps).Register(mux)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	srv := &http.Server{
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		l.Info(ctx, "starting status server", logger.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()
	if ready != nil {
		ready <- ln.Addr()
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrServe, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(ctx, "status server shutdown failed", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	l.Info(ctx, "status server stopped")
	return nil
}
