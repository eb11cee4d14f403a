// Package querycache mirrors the caller's "all lists" query in process.
//
// The cache holds exactly one entry. It can be read, replaced, snapshotted and restored,
// mutated in place under its lock, and invalidated. Invalidation marks the entry stale and
// starts a background refetch. Starting a new refetch or calling Cancel supersedes the one
// in flight; a superseded refetch never writes its result.
package querycache

import (
	"context"
	"sync"
	"time"

	"github.com/jalexanderII/zero-todo/models"
	"github.com/sirupsen/logrus"
)

// Fetcher loads the authoritative value.
type Fetcher func(ctx context.Context) ([]models.TodoList, error)

// Reconciler transforms a freshly fetched value before it is stored. gen is the generation
// of the refetch that produced it.
// It is called with the cache locked and must not call back into the cache.
type Reconciler func(gen uint64, fetched []models.TodoList) []models.TodoList

// Entry is the cached value. Present is false until the first successful fetch or Set.
type Entry struct {
	Lists   []models.TodoList
	Present bool
}

func (e Entry) Clone() Entry {
	return Entry{Lists: models.CloneLists(e.Lists), Present: e.Present}
}

type refetch struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

type Cache struct {
	fetch      Fetcher
	retries    int
	retryDelay time.Duration
	l          logrus.FieldLogger

	mu        sync.Mutex
	entry     Entry
	stale     bool
	fetchedAt time.Time
	gen       uint64
	inflight  *refetch
	reconcile Reconciler
}

type Option func(*Cache)

// WithRetry sets how many times a failed refetch is retried and the pause between attempts.
func WithRetry(retries int, delay time.Duration) Option {
	return func(c *Cache) {
		c.retries = retries
		c.retryDelay = delay
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Cache) { c.l = l }
}

func New(fetch Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetch:      fetch,
		retries:    1,
		retryDelay: time.Second,
		l:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetReconciler installs fn to run on every fetched value before it is stored.
func (c *Cache) SetReconciler(fn Reconciler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile = fn
}

// Get returns a copy of the current value and whether one is present.
func (c *Cache) Get() ([]models.TodoList, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneLists(c.entry.Lists), c.entry.Present
}

// Set replaces the value.
func (c *Cache) Set(lists []models.TodoList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = Entry{Lists: models.CloneLists(lists), Present: true}
}

func (c *Cache) Snapshot() Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.Clone()
}

// Restore puts back a value previously returned by Snapshot, including absence.
func (c *Cache) Restore(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = e.Clone()
}

// Mutate runs fn with the cache locked. fn may modify the entry in place.
// gen is the current generation: every refetch started after fn returns has a greater one.
func (c *Cache) Mutate(fn func(e *Entry, gen uint64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.entry, c.gen)
}

func (c *Cache) IsStale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale || !c.entry.Present
}

// FetchedAt is the time of the last successful fetch.
func (c *Cache) FetchedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt
}

// Invalidate marks the entry stale and starts a background refetch, superseding any
// refetch already in flight.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
	c.startLocked()
}

// Refetch starts a refetch and waits for it.
func (c *Cache) Refetch(ctx context.Context) error {
	c.mu.Lock()
	r := c.startLocked()
	c.mu.Unlock()

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the in-flight refetch, if any. Its result is discarded even if it has
// already been received.
func (c *Cache) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Wait blocks until the refetch in flight at the time of the call finishes.
// It returns the refetch error, or nil when nothing was in flight.
func (c *Cache) Wait(ctx context.Context) error {
	c.mu.Lock()
	r := c.inflight
	c.mu.Unlock()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cache) cancelLocked() {
	c.gen++
	if c.inflight != nil {
		c.inflight.cancel()
		c.inflight = nil
	}
}

func (c *Cache) startLocked() *refetch {
	c.cancelLocked()

	ctx, cancel := context.WithCancel(context.Background())
	r := &refetch{gen: c.gen, cancel: cancel, done: make(chan struct{})}
	c.inflight = r
	go c.run(ctx, r)
	return r
}

func (c *Cache) run(ctx context.Context, r *refetch) {
	defer close(r.done)
	defer r.cancel()

	var (
		lists []models.TodoList
		err   error
	)
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			r.err = ctx.Err()
			return
		}
		lists, err = c.fetch(ctx)
		if err == nil {
			break
		}
		c.l.WithError(err).WithField("attempt", attempt+1).Warn("[QueryCache] refetch failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r.gen != c.gen {
		r.err = context.Canceled
		return
	}
	c.inflight = nil
	if err != nil {
		r.err = err
		return
	}
	lists = models.CloneLists(lists)
	if lists == nil {
		lists = []models.TodoList{}
	}
	if c.reconcile != nil {
		lists = c.reconcile(r.gen, lists)
	}
	c.entry = Entry{Lists: lists, Present: true}
	c.stale = false
	c.fetchedAt = time.Now()
}
