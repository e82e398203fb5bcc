package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/prode/pkg/metrics"
)

// StandingsHandler serves months, leaderboards and scored matchdays.
type StandingsHandler struct {
	deps Dependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleListMonths handles GET /api/v1/months.
func (h *StandingsHandler) HandleListMonths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Months(r.Context()))
}

// HandleGetStandings handles GET /api/v1/standings and
// GET /api/v1/months/{month}/standings. Without a month the current one is used.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	lb, err := h.deps.Standings(r.Context(), month)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// HandleGetMatchdays handles GET /api/v1/months/{month}/matchdays.
func (h *StandingsHandler) HandleGetMatchdays(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	sm, err := h.deps.Matchdays(r.Context(), month)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sm)
}

func (h *StandingsHandler) fail(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	metrics.RecordErrorByComponent("api", code)
	writeError(w, status, code, err)
}

const maxMonthIDLen = 64

// monthParam returns the {month} path parameter, empty when the route has
// none. Ids are limited to letters, digits, '-' and '_'.
func monthParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "month")
	if len(id) > maxMonthIDLen {
		return "", fmt.Errorf("%w: month id longer than %d bytes", ErrBadRequest, maxMonthIDLen)
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return "", fmt.Errorf("%w: invalid month id %q", ErrBadRequest, id)
		}
	}
	return id, nil
}
