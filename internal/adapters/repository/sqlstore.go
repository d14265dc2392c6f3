package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/anxo/convoca/internal/domain/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS roster (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	position TEXT NOT NULL DEFAULT '',
	jersey   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS calendar (
	id      TEXT PRIMARY KEY,
	day     TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS calendar_day ON calendar(day);
`

// SQLStore is a SQLite-backed Store for deployments where the roster and
// calendar must survive restarts. Events are stored as their wire envelope
// keyed by event id; the anchor day is denormalized into its own column so
// listings come back in calendar order straight from the index.
//
// The revision counter is process-local: it is a cache key for derived
// reports, not a durable sequence, so restarting from the same database
// simply starts a fresh cache generation.
type SQLStore struct {
	db       *sql.DB
	revision atomic.Uint64
}

// NewSQLStore opens (creating if needed) the database at path and applies the
// schema. WAL mode and a busy timeout keep concurrent readers cheap.
func NewSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// PutPerson inserts or updates a roster member.
func (s *SQLStore) PutPerson(ctx context.Context, p model.Person) error {
	if p.ID == "" {
		return ErrEmptyID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO roster (id, name, position, jersey) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, position=excluded.position, jersey=excluded.jersey`,
		string(p.ID), p.Name, p.Position, p.Jersey,
	)
	if err != nil {
		return fmt.Errorf("put person %s: %w", p.ID, err)
	}
	s.revision.Add(1)
	return nil
}

// RemovePerson deletes a roster member.
func (s *SQLStore) RemovePerson(ctx context.Context, id model.PersonID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roster WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("remove person %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.revision.Add(1)
	return nil
}

// Roster returns the current roster ordered by id.
func (s *SQLStore) Roster(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, position, jersey FROM roster ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var roster []model.Person
	for rows.Next() {
		var p model.Person
		var id string
		if err := rows.Scan(&id, &p.Name, &p.Position, &p.Jersey); err != nil {
			return nil, fmt.Errorf("scan roster row: %w", err)
		}
		p.ID = model.PersonID(id)
		roster = append(roster, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return roster, nil
}

// PutEvent inserts or updates a calendar event.
func (s *SQLStore) PutEvent(ctx context.Context, e model.Event) (bool, error) {
	if e == nil {
		return false, ErrNilEvent
	}
	if e.EventID() == "" {
		return false, ErrEmptyID
	}
	payload, err := model.EncodeEvent(e)
	if err != nil {
		return false, err
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM calendar WHERE id = ?`, e.EventID()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", e.EventID(), err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calendar (id, day, payload) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET day=excluded.day, payload=excluded.payload`,
		e.EventID(), e.Anchor().String(), string(payload),
	)
	if err != nil {
		return false, fmt.Errorf("put event %s: %w", e.EventID(), err)
	}
	s.revision.Add(1)
	return exists == 0, nil
}

// RemoveEvent deletes a calendar event.
func (s *SQLStore) RemoveEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove event %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.revision.Add(1)
	return nil
}

// Events returns the calendar ordered by day, then id.
func (s *SQLStore) Events(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM calendar ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan calendar row: %w", err)
		}
		e, err := model.DecodeEvent([]byte(payload))
		if err != nil {
			// A row that fails to decode is corrupt data, not a caller error.
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar: %w", err)
	}
	return events, nil
}

// Snapshot reads roster and calendar and verifies the revision did not move
// between the two reads, retrying once if it did.
func (s *SQLStore) Snapshot(ctx context.Context) (Snapshot, error) {
	rev := s.revision.Load()
	roster, err := s.Roster(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	events, err := s.Events(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	// If a writer slipped in between the two reads the revision moved; retry
	// once rather than hand out a torn snapshot.
	if s.revision.Load() != rev {
		rev = s.revision.Load()
		if roster, err = s.Roster(ctx); err != nil {
			return Snapshot{}, err
		}
		if events, err = s.Events(ctx); err != nil {
			return Snapshot{}, err
		}
	}
	return Snapshot{Revision: rev, Roster: roster, Events: events}, nil
}

// Revision returns the current store revision.
func (s *SQLStore) Revision(ctx context.Context) uint64 {
	return s.revision.Load()
}

// Counts returns the roster and calendar sizes.
func (s *SQLStore) Counts(ctx context.Context) (people, events int) {
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM roster`).Scan(&people)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM calendar`).Scan(&events)
	return people, events
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("close sqlite store: %w", err)
	}
	return nil
}
