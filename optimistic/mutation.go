package optimistic

import (
	"context"
	"sync"

	"github.com/jalexanderII/zero-todo/models"
	"github.com/jalexanderII/zero-todo/querycache"
)

// State of a single mutation invocation.
//
//	Idle -> Pending -> Committed  -> Settled
//	                -> RolledBack -> Settled
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Patch is the locally predicted effect of a mutation on the cached lists.
// It receives a private copy and returns the new value.
type Patch func(lists []models.TodoList) []models.TodoList

// Mutation is the handle returned for one invocation.
type Mutation struct {
	Kind string

	patch Patch
	call  func(ctx context.Context) error
	// snapshot is the cache value this mutation's patch was applied to.
	// Guarded by Controller.mu, as are committed and commitGen.
	snapshot querycache.Entry
	committed bool
	// commitGen is the cache generation when the server confirmed the mutation
	commitGen uint64

	mu      sync.Mutex
	state   State
	outcome State
	err     error
	done    chan struct{}
}

func newMutation(kind string, patch Patch, call func(ctx context.Context) error) *Mutation {
	return &Mutation{
		Kind:  kind,
		patch: patch,
		call:  call,
		state: Idle,
		done:  make(chan struct{}),
	}
}

func (m *Mutation) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Outcome is Committed or RolledBack once the server answered, Idle before that.
func (m *Mutation) Outcome() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

// Err is the server error of a rolled back mutation.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Message is the user visible text for Err, empty when the mutation committed.
func (m *Mutation) Message() string {
	return models.UserMessage(m.Err())
}

// Done is closed when the mutation is Settled.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles and returns its error.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mutation) transition(to State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = to
	if to == Committed || to == RolledBack {
		m.outcome = to
	}
}

func (m *Mutation) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
