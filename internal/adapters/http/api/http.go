// Package api serves the live status of a race over HTTP: Prometheus
// metrics and the per-source standings.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/arena/internal/adapters/repository"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, source string) (Entry, error)
	Count(ctx context.Context) int
}

// Entry mirrors the read shape returned by standings queries.
type Entry = repository.Entry

const (
	defaultLimit = 10
	maxLimit     = 1000
)

// Server wires HTTP routes for the status API.
type Server struct {
	healthHandler    *HealthHandler
	standingsHandler *StandingsHandler
	rankHandler      *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		standingsHandler: NewStandingsHandler(deps, maxLimit),
		rankHandler:      NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/standings/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
