// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// CallUpDependencies defines the interface for call-up tallies.
type CallUpDependencies interface {
	CallUps(ctx context.Context) (map[model.PersonID]attendance.Tally, error)
}

// CallUpsHandler handles call-up tally requests.
type CallUpsHandler struct {
	deps CallUpDependencies
}

// NewCallUpsHandler creates a new call-ups handler.
func NewCallUpsHandler(deps CallUpDependencies) *CallUpsHandler {
	return &CallUpsHandler{deps: deps}
}

// HandleGetCallUps handles GET /callups requests.
func (h *CallUpsHandler) HandleGetCallUps(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_callups"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	tallies, err := h.deps.CallUps(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tallies)
}
