package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anxo/convoca/internal/domain/model"
	"github.com/anxo/convoca/pkg/metrics"
)

// MemStore is the default in-memory Store. Mutations invalidate a cached
// snapshot which is rebuilt lazily on the next read; rebuild cost is one sort
// of each collection, which for tens of people and hundreds of events is
// microseconds.
type MemStore struct {
	mu       sync.RWMutex
	people   map[model.PersonID]model.Person
	events   map[string]model.Event
	revision uint64
	closed   bool

	snapshot *Snapshot // nil when dirty
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(ctx context.Context) *MemStore {
	return &MemStore{
		people: make(map[model.PersonID]model.Person),
		events: make(map[string]model.Event),
	}
}

// PutPerson inserts or updates a roster member.
func (s *MemStore) PutPerson(ctx context.Context, p model.Person) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.people[p.ID] = p
	s.bumpLocked()
	return nil
}

// RemovePerson deletes a roster member.
func (s *MemStore) RemovePerson(ctx context.Context, id model.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.people[id]; !ok {
		return ErrNotFound
	}
	delete(s.people, id)
	s.bumpLocked()
	return nil
}

// Roster returns the current roster ordered by id.
func (s *MemStore) Roster(ctx context.Context) ([]model.Person, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Roster, nil
}

// PutEvent inserts or updates a calendar event.
func (s *MemStore) PutEvent(ctx context.Context, e model.Event) (bool, error) {
	if e == nil {
		return false, ErrNilEvent
	}
	if e.EventID() == "" {
		return false, ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrStoreClosed
	}
	_, existed := s.events[e.EventID()]
	s.events[e.EventID()] = e
	s.bumpLocked()
	return !existed, nil
}

// RemoveEvent deletes a calendar event.
func (s *MemStore) RemoveEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	s.bumpLocked()
	return nil
}

// Events returns the calendar ordered by day, then id.
func (s *MemStore) Events(ctx context.Context) ([]model.Event, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Events, nil
}

// Snapshot returns the cached snapshot, rebuilding it if a mutation happened
// since the last read.
func (s *MemStore) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	if s.snapshot != nil {
		snap := *s.snapshot
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Snapshot{}, ErrStoreClosed
	}
	if s.snapshot == nil {
		s.rebuildLocked()
	}
	return *s.snapshot, nil
}

// Revision returns the current store revision.
func (s *MemStore) Revision(ctx context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Counts returns the roster and calendar sizes.
func (s *MemStore) Counts(ctx context.Context) (people, events int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people), len(s.events)
}

// Close marks the store closed; further mutations fail.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// bumpLocked advances the revision and drops the cached snapshot.
// Must be called with s.mu held for writing.
func (s *MemStore) bumpLocked() {
	s.revision++
	s.snapshot = nil
}

// rebuildLocked sorts both collections into a fresh snapshot.
// Must be called with s.mu held for writing.
func (s *MemStore) rebuildLocked() {
	start := time.Now()

	roster := make([]model.Person, 0, len(s.people))
	for _, p := range s.people {
		roster = append(roster, p)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })

	events := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		di, dj := events[i].Anchor(), events[j].Anchor()
		if di != dj {
			return di.Before(dj)
		}
		return events[i].EventID() < events[j].EventID()
	})

	s.snapshot = &Snapshot{Revision: s.revision, Roster: roster, Events: events}

	metrics.RecordSnapshotRebuild(float64(time.Since(start).Microseconds()) / 1000.0)
	metrics.UpdateRosterSize(len(roster))
	metrics.UpdateCalendarSize(len(events))
}
