// Package repository defines the roster/calendar store interface and errors.
package repository

import (
	"context"

	"github.com/anxo/convoca/internal/domain/model"
)

// Snapshot is an immutable, consistent view of the store. The engine computes
// against snapshots so that a store mutating mid-computation can never skew a
// report. Revision increases monotonically with every mutation and doubles as
// the report cache key.
type Snapshot struct {
	Revision uint64
	Roster   []model.Person // ordered by id
	Events   []model.Event  // ordered by day, then id
}

// Store provides read/write access to the roster and calendar.
type Store interface {
	// PutPerson inserts or updates a roster member.
	PutPerson(ctx context.Context, p model.Person) error

	// RemovePerson deletes a roster member.
	// Returns ErrNotFound if the id is unknown.
	RemovePerson(ctx context.Context, id model.PersonID) error

	// Roster returns the current roster ordered by id.
	Roster(ctx context.Context) ([]model.Person, error)

	// PutEvent inserts or updates a calendar event keyed by its event id.
	// Returns true when the event was newly created.
	PutEvent(ctx context.Context, e model.Event) (bool, error)

	// RemoveEvent deletes a calendar event.
	// Returns ErrNotFound if the id is unknown.
	RemoveEvent(ctx context.Context, id string) error

	// Events returns the calendar ordered by day, then id.
	Events(ctx context.Context) ([]model.Event, error)

	// Snapshot returns a consistent view of roster and calendar.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Revision returns the current store revision without building a snapshot.
	Revision(ctx context.Context) uint64

	// Counts returns the roster and calendar sizes.
	Counts(ctx context.Context) (people, events int)

	// Close releases underlying resources.
	Close() error
}
