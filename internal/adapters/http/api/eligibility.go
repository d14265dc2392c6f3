// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// EligibilityDependencies defines the interface for match-day eligibility.
type EligibilityDependencies interface {
	Eligibility(ctx context.Context, matchDay model.Day) (map[model.PersonID]attendance.Eligibility, error)
}

// EligibilityHandler handles match-day eligibility requests.
type EligibilityHandler struct {
	deps EligibilityDependencies
}

// NewEligibilityHandler creates a new eligibility handler.
func NewEligibilityHandler(deps EligibilityDependencies) *EligibilityHandler {
	return &EligibilityHandler{deps: deps}
}

// HandleGetEligibility handles GET /eligibility?date=YYYY-MM-DD requests.
func (h *EligibilityHandler) HandleGetEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_eligibility"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	day, err := model.ParseDay(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	result, err := h.deps.Eligibility(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
