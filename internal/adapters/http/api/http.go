// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anxo/convoca/internal/adapters/repository"
	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitEvent pushes a calendar event upsert for async application.
	// Returns false on backpressure.
	SubmitEvent(ctx context.Context, e model.Event) bool

	// RetractEvent pushes a calendar event removal for async application.
	// Returns false on backpressure.
	RetractEvent(ctx context.Context, id string) bool

	// Roster operations are synchronous.
	UpsertPerson(ctx context.Context, p model.Person) error
	RemovePerson(ctx context.Context, id model.PersonID) error
	Roster(ctx context.Context) ([]model.Person, error)

	// Read operations expose the calendar and derived reports.
	Events(ctx context.Context) ([]model.Event, error)
	Attendance(ctx context.Context) (map[model.PersonID]attendance.Record, error)
	CallUps(ctx context.Context) (map[model.PersonID]attendance.Tally, error)
	Eligibility(ctx context.Context, matchDay model.Day) (map[model.PersonID]attendance.Eligibility, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	rosterHandler      *RosterHandler
	attendanceHandler  *AttendanceHandler
	callUpsHandler     *CallUpsHandler
	eligibilityHandler *EligibilityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		eventsHandler:      NewEventsHandler(deps),
		rosterHandler:      NewRosterHandler(deps),
		attendanceHandler:  NewAttendanceHandler(deps),
		callUpsHandler:     NewCallUpsHandler(deps),
		eligibilityHandler: NewEligibilityHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleEventByID, "events"))
	mux.HandleFunc("/roster", MetricsMiddleware(s.rosterHandler.HandleRoster, "roster"))
	mux.HandleFunc("/roster/", MetricsMiddleware(s.rosterHandler.HandlePersonByID, "roster"))
	mux.HandleFunc("/attendance", MetricsMiddleware(s.attendanceHandler.HandleGetAttendance, "attendance"))
	mux.HandleFunc("/callups", MetricsMiddleware(s.callUpsHandler.HandleGetCallUps, "callups"))
	mux.HandleFunc("/eligibility", MetricsMiddleware(s.eligibilityHandler.HandleGetEligibility, "eligibility"))
}

type ackResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
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

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
