// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// AttendanceDependencies defines the interface for attendance reports.
type AttendanceDependencies interface {
	Attendance(ctx context.Context) (map[model.PersonID]attendance.Record, error)
}

// AttendanceHandler handles attendance report requests.
type AttendanceHandler struct {
	deps AttendanceDependencies
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(deps AttendanceDependencies) *AttendanceHandler {
	return &AttendanceHandler{deps: deps}
}

// HandleGetAttendance handles GET /attendance requests.
func (h *AttendanceHandler) HandleGetAttendance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_attendance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, err := h.deps.Attendance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, records)
}
