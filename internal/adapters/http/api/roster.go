// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anxo/convoca/internal/domain/model"
)

// RosterDependencies defines the interface for roster operations.
type RosterDependencies interface {
	UpsertPerson(ctx context.Context, p model.Person) error
	RemovePerson(ctx context.Context, id model.PersonID) error
	Roster(ctx context.Context) ([]model.Person, error)
}

// RosterHandler handles roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleRoster handles GET /roster requests.
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_roster"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	roster, err := h.deps.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandlePersonByID handles PUT /roster/{id} and DELETE /roster/{id} requests.
func (h *RosterHandler) HandlePersonByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/roster/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.handlePut(w, r, model.PersonID(id))
	case http.MethodDelete:
		h.handleDelete(w, r, model.PersonID(id))
	default:
		http.NotFound(w, r)
	}
}

func (h *RosterHandler) handlePut(w http.ResponseWriter, r *http.Request, id model.PersonID) {
	const op = "api.put_person"
	var p model.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	// The path segment is authoritative; a mismatching body id is rejected
	// rather than silently rewritten.
	if p.ID == "" {
		p.ID = id
	}
	if p.ID != id {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.UpsertPerson(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *RosterHandler) handleDelete(w http.ResponseWriter, r *http.Request, id model.PersonID) {
	const op = "api.delete_person"
	if err := h.deps.RemovePerson(r.Context(), id); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "removed", ID: string(id)})
}
