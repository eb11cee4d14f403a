package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jalexanderII/zero-todo/database"
	"github.com/jalexanderII/zero-todo/models"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a strictly increasing time on every call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestService(t *testing.T) (*TodoService, *test.Hook) {
	t.Helper()
	l, hook := test.NewNullLogger()
	return NewTodoService(database.NewMemoryStore(), l, WithClock(tickingClock())), hook
}

func strPtr(s string) *string { return &s }

func TestCreateListScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Empty(t, svc.ListAll(ctx, "alice"))

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", list.Title)
	assert.Nil(t, list.Description)
	assert.Equal(t, "alice", list.CreatedByID)
	assert.NotNil(t, list.TodoItems)
	assert.Empty(t, list.TodoItems)

	lists := svc.ListAll(ctx, "alice")
	require.Len(t, lists, 1)
	assert.Equal(t, "Groceries", lists[0].Title)
	assert.Empty(t, lists[0].TodoItems)
}

func TestCreateListKeepsExactValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	title := strings.Repeat("t", models.MaxListTitleLen)
	desc := strings.Repeat("d", models.MaxDescriptionLen)
	list, err := svc.CreateList(ctx, "alice", title, &desc)
	require.NoError(t, err)
	assert.Equal(t, title, list.Title)
	require.NotNil(t, list.Description)
	assert.Equal(t, desc, *list.Description)

	empty := ""
	list, err = svc.CreateList(ctx, "alice", "x", &empty)
	require.NoError(t, err)
	assert.Equal(t, "", *list.Description)
}

func TestCreateListValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		title       string
		description *string
		field       string
		message     string
	}{
		{name: "empty title", title: "", field: "title", message: "List Title is Required"},
		{name: "blank title", title: "   ", field: "title", message: "List Title is Required"},
		{name: "long title", title: strings.Repeat("a", 101), field: "title", message: "Title is too long"},
		{name: "long description", title: "ok", description: strPtr(strings.Repeat("a", 501)), field: "description", message: "Description is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateList(ctx, "alice", tt.title, tt.description)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, []string{tt.message}, verr.Fields[tt.field])
		})
	}
	assert.Empty(t, svc.ListAll(ctx, "alice"))
}

func TestListOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateList(ctx, "alice", "first", nil)
	require.NoError(t, err)
	second, err := svc.CreateList(ctx, "alice", "second", nil)
	require.NoError(t, err)
	for _, title := range []string{"a", "b", "c"} {
		_, err = svc.AddItem(ctx, "alice", first.ID, title)
		require.NoError(t, err)
	}

	lists := svc.ListAll(ctx, "alice")
	require.Len(t, lists, 2)
	assert.Equal(t, second.ID, lists[0].ID)
	assert.Equal(t, first.ID, lists[1].ID)

	var titles []string
	for _, item := range lists[1].TodoItems {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles)
}

func TestAddItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, "alice", list.ID, "Milk")
	require.NoError(t, err)
	assert.False(t, item.Completed)
	assert.Equal(t, list.ID, item.TodoListID)

	_, err = svc.AddItem(ctx, "alice", list.ID, "")
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Item Title is Required"}, verr.Fields["title"])

	_, err = svc.AddItem(ctx, "alice", list.ID, strings.Repeat("m", 201))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Title is too long"}, verr.Fields["title"])

	_, err = svc.AddItem(ctx, "alice", "missing", "Milk")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestToggleIsInvolution(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, "alice", list.ID, "Milk")
	require.NoError(t, err)

	once, err := svc.ToggleItem(ctx, "alice", item.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)
	assert.True(t, once.UpdatedAt.After(item.UpdatedAt))

	twice, err := svc.ToggleItem(ctx, "alice", item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Completed, twice.Completed)
}

func TestDeleteListCascades(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, "alice", list.ID, "Milk")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, "alice", list.ID))
	assert.Empty(t, svc.ListAll(ctx, "alice"))

	_, err = svc.ToggleItem(ctx, "alice", item.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteList(ctx, "alice", list.ID), models.ErrForbidden)
}

func TestDeleteItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, "alice", list.ID, "Milk")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, "alice", item.ID))
	assert.Empty(t, svc.ListAll(ctx, "alice")[0].TodoItems)
	assert.ErrorIs(t, svc.DeleteItem(ctx, "alice", item.ID), models.ErrForbidden)
}

func TestNonOwnerIsRejected(t *testing.T) {
	svc, hook := newTestService(t)
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, "alice", list.ID, "Milk")
	require.NoError(t, err)

	assert.Empty(t, svc.ListAll(ctx, "mallory"))

	_, err = svc.AddItem(ctx, "mallory", list.ID, "Eggs")
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = svc.ToggleItem(ctx, "mallory", item.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteItem(ctx, "mallory", item.ID), models.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteList(ctx, "mallory", list.ID), models.ErrForbidden)

	lists := svc.ListAll(ctx, "alice")
	require.Len(t, lists, 1)
	require.Len(t, lists[0].TodoItems, 1)
	assert.False(t, lists[0].TodoItems[0].Completed)
	assert.Empty(t, hook.AllEntries(), "ownership failures are not logged as errors")
}

func TestMissingCaller(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Empty(t, svc.ListAll(ctx, ""))
	_, err := svc.CreateList(ctx, "", "Groceries", nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.ErrorIs(t, svc.DeleteList(ctx, "", "x"), models.ErrUnauthenticated)
	_, err = svc.AddItem(ctx, "", "x", "Milk")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	_, err = svc.ToggleItem(ctx, "", "x")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.ErrorIs(t, svc.DeleteItem(ctx, "", "x"), models.ErrUnauthenticated)
}

type failingStore struct {
	database.Store
}

func (failingStore) ListsByOwner(context.Context, string) ([]models.TodoList, error) {
	return nil, errors.New("connection reset")
}

func TestListAllDegradesToEmpty(t *testing.T) {
	l, hook := test.NewNullLogger()
	svc := NewTodoService(failingStore{Store: database.NewMemoryStore()}, l)

	lists := svc.ListAll(context.Background(), "alice")
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

// wrappingStore annotates every ownership failure the way the SQL and Mongo stores may.
type wrappingStore struct {
	database.Store
}

func (w wrappingStore) DeleteList(ctx context.Context, ownerID, listID string) error {
	return pkgerrors.Wrap(w.Store.DeleteList(ctx, ownerID, listID), "delete list")
}

func (w wrappingStore) InsertItem(ctx context.Context, ownerID string, item *models.TodoItem) error {
	return pkgerrors.Wrap(w.Store.InsertItem(ctx, ownerID, item), "insert item")
}

func (w wrappingStore) ToggleItem(ctx context.Context, ownerID, itemID string, now time.Time) (*models.TodoItem, error) {
	item, err := w.Store.ToggleItem(ctx, ownerID, itemID, now)
	return item, pkgerrors.Wrap(err, "toggle item")
}

func (w wrappingStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	return pkgerrors.Wrap(w.Store.DeleteItem(ctx, ownerID, itemID), "delete item")
}

func TestWrappedOwnershipFailuresStayQuiet(t *testing.T) {
	l, hook := test.NewNullLogger()
	svc := NewTodoService(wrappingStore{Store: database.NewMemoryStore()}, l, WithClock(tickingClock()))
	ctx := context.Background()

	list, err := svc.CreateList(ctx, "alice", "Groceries", nil)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, "alice", list.ID, "Milk")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "mallory", list.ID, "Eggs")
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = svc.ToggleItem(ctx, "mallory", item.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteItem(ctx, "mallory", item.ID), models.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteList(ctx, "mallory", list.ID), models.ErrForbidden)

	assert.Empty(t, hook.AllEntries())
}
