package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// StandingsDependencies defines the interface for standings reads.
type StandingsDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	Count(ctx context.Context) int
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps     StandingsDependencies
	maxLimit int
}

type standingsResponse struct {
	Sources int     `json:"sources"`
	Entries []Entry `json:"entries"`
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies, maxLimit int) *StandingsHandler {
	return &StandingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetStandings handles GET /standings?limit=N requests. limit defaults to 10.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit must be <= %d", ErrBadRequest, h.maxLimit))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, standingsResponse{Sources: h.deps.Count(r.Context()), Entries: entries})
}
