// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	mutationqueue "github.com/anxo/convoca/internal/adapters/mq/queue"
	workerpool "github.com/anxo/convoca/internal/adapters/mq/worker"
	"github.com/anxo/convoca/internal/adapters/repository"
	"github.com/anxo/convoca/internal/config"
	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/memo"
	"github.com/anxo/convoca/internal/domain/model"
	"github.com/anxo/convoca/pkg/logger"
	"github.com/anxo/convoca/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrRosterFull = errors.New("roster full")
)

// Service owns the store, the mutation pipeline, and the report cache, and
// exposes the read/write API the HTTP layer consumes.
type Service struct {
	mu sync.RWMutex

	// Core components.
	store      repository.Store
	queue      mutationqueue.Queue
	workerPool *workerpool.Pool
	reports    memo.Cache

	// Configuration.
	workerCount   int
	queueSize     int
	memoSize      int
	storeBackend  string
	sqlitePath    string
	maxRosterSize int

	// State.
	started bool

	// Logging.
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the number of mutation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the mutation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMemoSize sets the size of the report cache.
func WithMemoSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.memoSize = size
		}
	}
}

// WithStoreBackend selects the store backend and, for sqlite, its path.
func WithStoreBackend(backend, path string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storeBackend = backend
		}
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithMaxRosterSize caps roster upserts. Zero disables the cap.
func WithMaxRosterSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRosterSize = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     10_000,
		memoSize:      16,
		storeBackend:  config.StoreMemory,
		maxRosterSize: 0,
		logger:        nil, // replaced on Start when unset
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting attendance service...")

	switch s.storeBackend {
	case config.StoreSQLite:
		store, err := repository.NewSQLStore(ctx, s.sqlitePath)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
	default:
		s.store = repository.NewMemStore(ctx)
		s.logger.Info(ctx, "using in-memory store")
	}

	s.reports = memo.NewInMemoryCache(memo.WithMaxSize(s.memoSize))
	s.queue = mutationqueue.NewInMemoryQueue(mutationqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "attendance service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("memoSize", s.memoSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping attendance service...")

	if q, ok := s.queue.(*mutationqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "attendance service stopped")
}

// SubmitEvent enqueues a calendar event upsert for asynchronous application.
// Returns false on backpressure.
func (s *Service) SubmitEvent(ctx context.Context, e model.Event) bool {
	ok := s.queue.Enqueue(ctx, mutationqueue.Mutation{Op: mutationqueue.OpPut, Event: e})
	if ok {
		metrics.RecordEventIngested()
		s.logger.Debug(ctx, "event enqueued",
			logger.String("eventID", e.EventID()),
			logger.String("kind", string(e.EventKind())),
		)
	}
	return ok
}

// RetractEvent enqueues a calendar event removal.
// Returns false on backpressure.
func (s *Service) RetractEvent(ctx context.Context, id string) bool {
	return s.queue.Enqueue(ctx, mutationqueue.Mutation{Op: mutationqueue.OpDelete, EventID: id})
}

// UpsertPerson adds or updates a roster member synchronously; roster edits
// are rare and callers want read-your-write semantics for them.
func (s *Service) UpsertPerson(ctx context.Context, p model.Person) error {
	if s.maxRosterSize > 0 {
		roster, err := s.store.Roster(ctx)
		if err != nil {
			return err
		}
		exists := false
		for _, existing := range roster {
			if existing.ID == p.ID {
				exists = true
				break
			}
		}
		if !exists && len(roster) >= s.maxRosterSize {
			return fmt.Errorf("%w: limit %d", ErrRosterFull, s.maxRosterSize)
		}
	}
	return s.store.PutPerson(ctx, p)
}

// RemovePerson deletes a roster member synchronously.
func (s *Service) RemovePerson(ctx context.Context, id model.PersonID) error {
	return s.store.RemovePerson(ctx, id)
}

// Roster returns the current roster ordered by id.
func (s *Service) Roster(ctx context.Context) ([]model.Person, error) {
	return s.store.Roster(ctx)
}

// Events returns the calendar ordered by day, then id.
func (s *Service) Events(ctx context.Context) ([]model.Event, error) {
	return s.store.Events(ctx)
}

// Attendance returns the per-person attendance records for the current
// snapshot.
func (s *Service) Attendance(ctx context.Context) (map[model.PersonID]attendance.Record, error) {
	r, err := s.report(ctx)
	if err != nil {
		return nil, err
	}
	return r.Attendance, nil
}

// CallUps returns the per-person call-up tallies for the current snapshot.
func (s *Service) CallUps(ctx context.Context) (map[model.PersonID]attendance.Tally, error) {
	r, err := s.report(ctx)
	if err != nil {
		return nil, err
	}
	return r.CallUps, nil
}

// Eligibility classifies the roster for one target match day. It is cheap
// enough to compute fresh on every call.
func (s *Service) Eligibility(ctx context.Context, matchDay model.Day) (map[model.PersonID]attendance.Eligibility, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return attendance.ResolveEligibility(snap.Roster, snap.Events, matchDay), nil
}

// report returns the derived report for the current snapshot, computing and
// caching it when the revision has moved.
func (s *Service) report(ctx context.Context) (memo.Report, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return memo.Report{}, err
	}
	if r, ok := s.reports.Get(ctx, snap.Revision); ok {
		metrics.RecordMemoHit()
		return r, nil
	}
	metrics.RecordMemoMiss()

	start := time.Now()
	r := memo.Report{
		Revision:   snap.Revision,
		Attendance: attendance.Compute(snap.Roster, snap.Events),
		CallUps:    attendance.CallUpTally(snap.Roster, snap.Events),
	}
	metrics.RecordReportRecompute(float64(time.Since(start).Microseconds()) / 1000.0)

	s.reports.Put(ctx, r)
	return r, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"store":       s.storeBackend,
	}
	if s.started {
		ctx := context.Background()
		people, events := s.store.Counts(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["rosterSize"] = people
		stats["calendarSize"] = events
		stats["revision"] = s.store.Revision(ctx)
		stats["cachedReports"] = s.reports.Size()

		metrics.UpdateRosterSize(people)
		metrics.UpdateCalendarSize(events)
	}
	return stats
}
