// Package memo provides a bounded cache for derived reports keyed by store
// revision, replacing the ad hoc per-view caches the dashboards used to keep.
package memo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// Report bundles the derived maps computed from one snapshot. A Report is
// immutable once stored; callers must not mutate the maps.
type Report struct {
	Revision   uint64
	Attendance map[model.PersonID]attendance.Record
	CallUps    map[model.PersonID]attendance.Tally
}

// Cache stores computed reports keyed by store revision.
type Cache interface {
	// Get returns the report for rev if cached.
	Get(ctx context.Context, rev uint64) (Report, bool)

	// Put stores the report under its revision, evicting the oldest entry
	// when the cache is full.
	Put(ctx context.Context, r Report)

	Size() int64
}

// entry is one node in the insertion-ordered list used for eviction.
type entry struct {
	rev    uint64
	report Report
	next   *entry
}

// inMemoryCache implements Cache with a map plus a singly linked list in
// insertion order. Eviction drops the oldest revision; in practice the store
// revision only moves forward, so the oldest entry is also the least useful.
type inMemoryCache struct {
	mu      sync.RWMutex
	byRev   map[uint64]*entry
	head    *entry // most recently inserted
	maxSize int    // 0 or negative means unbounded
	size    atomic.Int64
}

// NewInMemoryCache creates a report cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 16, // a handful of revisions is plenty; readers chase the newest
	}
	for _, opt := range opts {
		opt(c)
	}
	c.byRev = make(map[uint64]*entry)
	return c
}

// Get returns the report for rev if cached.
func (c *inMemoryCache) Get(ctx context.Context, rev uint64) (Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byRev[rev]
	if !ok {
		return Report{}, false
	}
	return e.report, true
}

// Put stores the report under its revision.
func (c *inMemoryCache) Put(ctx context.Context, r Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byRev[r.Revision]; ok {
		existing.report = r
		return
	}

	if c.maxSize > 0 && len(c.byRev) >= c.maxSize {
		c.evictOldest()
	}

	e := &entry{rev: r.Revision, report: r, next: c.head}
	c.head = e
	c.byRev[r.Revision] = e
	c.size.Add(1)
}

// evictOldest removes the tail of the insertion list. Must be called with
// c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.byRev, c.head.rev)
		c.head = nil
		c.size.Add(-1)
		return
	}
	prev := c.head
	for prev.next.next != nil {
		prev = prev.next
	}
	delete(c.byRev, prev.next.rev)
	prev.next = nil
	c.size.Add(-1)
}

// Size returns the current number of cached reports.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
