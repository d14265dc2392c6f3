// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/anxo/convoca/internal/domain/model"
)

// EventDependencies defines the interface for calendar event handling.
type EventDependencies interface {
	SubmitEvent(ctx context.Context, e model.Event) bool
	RetractEvent(ctx context.Context, id string) bool
	Events(ctx context.Context) ([]model.Event, error)
}

// EventsHandler handles calendar event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleEvents handles POST /events and GET /events requests.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	var env model.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	// Clients may omit the id on first submission; upserts must carry it.
	if strings.TrimSpace(env.ID) == "" {
		env.ID = uuid.NewString()
	}
	event, err := env.Decode()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if ok := h.deps.SubmitEvent(r.Context(), event); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: event.EventID()})
}

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	events, err := h.deps.Events(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	envelopes := make([]model.Envelope, len(events))
	for i, e := range events {
		envelopes[i] = model.NewEnvelope(e)
	}
	writeJSON(w, http.StatusOK, envelopes)
}

// HandleEventByID handles DELETE /events/{id} requests.
func (h *EventsHandler) HandleEventByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_event"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/events/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if ok := h.deps.RetractEvent(r.Context(), id); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: id})
}
