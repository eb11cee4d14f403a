// Package services implements the to-do Mutation API on top of a database.Store.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/jalexanderII/zero-todo/database"
	"github.com/jalexanderII/zero-todo/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TodoService struct {
	store database.Store
	L     logrus.FieldLogger
	now   func() time.Time
	newID func() string
}

type Option func(*TodoService)

// WithClock overrides time.Now, used to make ordering deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

func NewTodoService(store database.Store, l logrus.FieldLogger, opts ...Option) *TodoService {
	s := &TodoService{
		store: store,
		L:     l,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return primitive.NewObjectID().Hex() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns the caller's lists. Store faults are logged and yield an empty result.
func (s *TodoService) ListAll(ctx context.Context, callerID string) []models.TodoList {
	if callerID == "" {
		return []models.TodoList{}
	}
	lists, err := s.store.ListsByOwner(ctx, callerID)
	if err != nil {
		s.L.WithError(err).WithField("user_id", callerID).Error("[TodoDB] Error fetching todo lists")
		return []models.TodoList{}
	}
	return lists
}

func (s *TodoService) CreateList(ctx context.Context, callerID, title string, description *string) (*models.TodoList, error) {
	if callerID == "" {
		return nil, models.ErrUnauthenticated
	}
	if err := models.ValidateCreateList(title, description); err != nil {
		return nil, err
	}

	now := s.now()
	list := &models.TodoList{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatedByID: callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		TodoItems:   []models.TodoItem{},
	}
	if err := s.store.InsertList(ctx, list); err != nil {
		s.L.WithError(err).Error("[TodoDB] Error creating todo list")
		return nil, err
	}
	return list, nil
}

func (s *TodoService) DeleteList(ctx context.Context, callerID, listID string) error {
	if callerID == "" {
		return models.ErrUnauthenticated
	}
	return s.logged(s.store.DeleteList(ctx, callerID, listID), "Error deleting todo list")
}

func (s *TodoService) AddItem(ctx context.Context, callerID, listID, title string) (*models.TodoItem, error) {
	if callerID == "" {
		return nil, models.ErrUnauthenticated
	}
	if err := models.ValidateAddItem(title); err != nil {
		return nil, err
	}

	now := s.now()
	item := &models.TodoItem{
		ID:         s.newID(),
		Title:      title,
		Completed:  false,
		TodoListID: listID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.logged(s.store.InsertItem(ctx, callerID, item), "Error creating todo item"); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TodoService) ToggleItem(ctx context.Context, callerID, itemID string) (*models.TodoItem, error) {
	if callerID == "" {
		return nil, models.ErrUnauthenticated
	}
	item, err := s.store.ToggleItem(ctx, callerID, itemID, s.now())
	if err = s.logged(err, "Error toggling todo item"); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TodoService) DeleteItem(ctx context.Context, callerID, itemID string) error {
	if callerID == "" {
		return models.ErrUnauthenticated
	}
	return s.logged(s.store.DeleteItem(ctx, callerID, itemID), "Error deleting todo item")
}

// logged reports unexpected store failures. Ownership failures are expected and stay quiet.
func (s *TodoService) logged(err error, msg string) error {
	if err != nil && !errors.Is(err, models.ErrForbidden) {
		s.L.WithError(err).Error("[TodoDB] " + msg)
	}
	return err
}
