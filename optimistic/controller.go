// Package optimistic applies predicted results of to-do mutations to a querycache.Cache
// before the server confirms them, and reconciles the cache once they settle.
//
// Every mutation snapshots the cache, applies its patch and calls the API in the
// background. A failed call restores the snapshot. Success or failure, the cache is then
// invalidated so the refetched server state replaces the prediction.
//
// Overlapping mutations are merged rather than clobbered: the controller keeps every patch
// the server has not been seen to reflect yet, pending or committed, in invocation order.
// Rollbacks and refetches rebuild the cache by re-applying those patches on top of the new
// base. A committed patch is dropped once a refetch started after its commit lands.
package optimistic

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jalexanderII/zero-todo/models"
	"github.com/jalexanderII/zero-todo/querycache"
	"github.com/sirupsen/logrus"
)

// API is the Mutation API as the client sees it.
type API interface {
	ListAll(ctx context.Context) ([]models.TodoList, error)
	CreateList(ctx context.Context, title string, description *string) (*models.TodoList, error)
	DeleteList(ctx context.Context, listID string) error
	AddItem(ctx context.Context, listID, title string) (*models.TodoItem, error)
	ToggleItem(ctx context.Context, itemID string) (*models.TodoItem, error)
	DeleteItem(ctx context.Context, itemID string) error
}

type Controller struct {
	api   API
	cache *querycache.Cache
	l     logrus.FieldLogger
	now   func() time.Time
	newID func() string

	mu sync.Mutex
	// active holds pending mutations and committed ones awaiting a covering refetch
	active []*Mutation
}

type Option func(*Controller)

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.l = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New wires a controller to cache. The cache's reconciler is replaced so that refetched
// values keep the edits the server has not been seen to reflect yet.
func New(api API, cache *querycache.Cache, opts ...Option) *Controller {
	c := &Controller{
		api:   api,
		cache: cache,
		l:     logrus.StandardLogger(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return models.TempIDPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	cache.SetReconciler(c.rebase)
	return c
}

// Pending is the number of mutations waiting for the server.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.active {
		if !m.committed {
			n++
		}
	}
	return n
}

// CreateList prepends a placeholder list and creates it on the server.
func (c *Controller) CreateList(ctx context.Context, title, description string) (*Mutation, error) {
	title = strings.TrimSpace(title)
	var desc *string
	if d := strings.TrimSpace(description); d != "" {
		desc = &d
	}
	if title == "" {
		verr := &models.ValidationError{}
		verr.Add("title", "Title is required")
		return nil, verr
	}
	if err := models.ValidateCreateList(title, desc); err != nil {
		return nil, err
	}

	now := c.now()
	placeholder := models.TodoList{
		ID:          c.newID(),
		Title:       title,
		Description: desc,
		CreatedAt:   now,
		UpdatedAt:   now,
		TodoItems:   []models.TodoItem{},
	}
	patch := func(lists []models.TodoList) []models.TodoList {
		return append([]models.TodoList{placeholder.Clone()}, lists...)
	}
	call := func(ctx context.Context) error {
		_, err := c.api.CreateList(ctx, title, desc)
		return err
	}
	return c.run(ctx, "createList", patch, call), nil
}

// DeleteList removes the list locally and on the server.
func (c *Controller) DeleteList(ctx context.Context, listID string) (*Mutation, error) {
	patch := func(lists []models.TodoList) []models.TodoList {
		out := lists[:0]
		for _, l := range lists {
			if l.ID != listID {
				out = append(out, l)
			}
		}
		return out
	}
	call := func(ctx context.Context) error {
		return c.api.DeleteList(ctx, listID)
	}
	return c.run(ctx, "deleteList", patch, call), nil
}

// AddItem appends an incomplete placeholder item to the list and creates it on the server.
func (c *Controller) AddItem(ctx context.Context, listID, title string) (*Mutation, error) {
	title = strings.TrimSpace(title)
	if err := models.ValidateAddItem(title); err != nil {
		return nil, err
	}
	if models.IsTempID(listID) {
		verr := &models.ValidationError{}
		verr.Add("listId", "List is still being created")
		return nil, verr
	}

	now := c.now()
	placeholder := models.TodoItem{
		ID:         c.newID(),
		Title:      title,
		Completed:  false,
		TodoListID: listID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	patch := func(lists []models.TodoList) []models.TodoList {
		for i := range lists {
			if lists[i].ID == listID {
				lists[i].TodoItems = append(lists[i].TodoItems, placeholder)
			}
		}
		return lists
	}
	call := func(ctx context.Context) error {
		_, err := c.api.AddItem(ctx, listID, title)
		return err
	}
	return c.run(ctx, "addItem", patch, call), nil
}

// ToggleItem flips the item locally and on the server.
func (c *Controller) ToggleItem(ctx context.Context, itemID string) (*Mutation, error) {
	now := c.now()
	patch := func(lists []models.TodoList) []models.TodoList {
		for i := range lists {
			if idx := lists[i].ItemIndex(itemID); idx >= 0 {
				item := &lists[i].TodoItems[idx]
				item.Completed = !item.Completed
				item.UpdatedAt = now
			}
		}
		return lists
	}
	call := func(ctx context.Context) error {
		_, err := c.api.ToggleItem(ctx, itemID)
		return err
	}
	return c.run(ctx, "toggleItem", patch, call), nil
}

// DeleteItem removes the item locally and on the server.
func (c *Controller) DeleteItem(ctx context.Context, itemID string) (*Mutation, error) {
	patch := func(lists []models.TodoList) []models.TodoList {
		for i := range lists {
			if idx := lists[i].ItemIndex(itemID); idx >= 0 {
				items := lists[i].TodoItems
				lists[i].TodoItems = append(items[:idx:idx], items[idx+1:]...)
			}
		}
		return lists
	}
	call := func(ctx context.Context) error {
		return c.api.DeleteItem(ctx, itemID)
	}
	return c.run(ctx, "deleteItem", patch, call), nil
}

// run takes m from Idle to Pending, applying its patch, and settles it in the background.
func (c *Controller) run(ctx context.Context, kind string, patch Patch, call func(ctx context.Context) error) *Mutation {
	m := newMutation(kind, patch, call)

	// a refetch landing after the snapshot would be applied out of order
	c.cache.Cancel()

	c.cache.Mutate(func(e *querycache.Entry, _ uint64) {
		c.mu.Lock()
		defer c.mu.Unlock()

		m.snapshot = e.Clone()
		*e = apply(*e, m.patch)
		c.active = append(c.active, m)
		m.transition(Pending)
	})
	c.l.WithField("mutation", kind).Debug("[Optimistic] applied")

	go func() {
		c.settle(m, m.call(ctx))
	}()
	return m
}

// settle is the single reconciliation point: it commits or rolls back m, then always
// invalidates the cache.
func (c *Controller) settle(m *Mutation, err error) {
	c.cache.Mutate(func(e *querycache.Entry, gen uint64) {
		c.mu.Lock()
		defer c.mu.Unlock()

		idx := c.indexOf(m)
		if idx < 0 {
			return
		}

		if err == nil {
			// the cache keeps the prediction until a refetch newer than gen replaces it
			m.committed = true
			m.commitGen = gen
			m.transition(Committed)
			return
		}

		rest := c.active[idx+1:]
		c.active = append(c.active[:idx:idx], rest...)

		m.fail(err)
		m.transition(RolledBack)
		// later mutations were applied on top of m's prediction; rebuild them on m's snapshot
		base := m.snapshot
		for _, p := range c.active[idx:] {
			p.snapshot = base.Clone()
			base = apply(base, p.patch)
		}
		*e = base
	})

	entry := c.l.WithField("mutation", m.Kind).WithField("outcome", m.Outcome().String())
	if err != nil {
		entry.WithError(err).Warn("[Optimistic] rolled back")
	} else {
		entry.Debug("[Optimistic] committed")
	}

	c.cache.Invalidate()
	m.transition(Settled)
	close(m.done)
}

// rebase re-applies every active patch on top of a freshly fetched value, first dropping
// committed mutations the fetch started after. Runs with the cache locked.
func (c *Controller) rebase(gen uint64, fetched []models.TodoList) []models.TodoList {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]*Mutation, 0, len(c.active))
	for _, p := range c.active {
		if p.committed && gen > p.commitGen {
			continue
		}
		kept = append(kept, p)
	}
	c.active = kept

	base := querycache.Entry{Lists: fetched, Present: true}
	for _, p := range c.active {
		p.snapshot = base.Clone()
		base = apply(base, p.patch)
	}
	return base.Lists
}

func (c *Controller) indexOf(m *Mutation) int {
	for i, p := range c.active {
		if p == m {
			return i
		}
	}
	return -1
}

// apply runs patch on a copy of e. An absent entry stays absent.
func apply(e querycache.Entry, patch Patch) querycache.Entry {
	if !e.Present {
		return e.Clone()
	}
	return querycache.Entry{Lists: patch(models.CloneLists(e.Lists)), Present: true}
}
