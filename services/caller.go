package services

import (
	"context"

	"github.com/jalexanderII/zero-todo/models"
)

// CallerScope is the TodoService seen by a single authenticated caller. It has the same
// method set as the HTTP client in app/clients, so an optimistic.Controller can run
// in-process against it.
type CallerScope struct {
	svc      *TodoService
	callerID string
}

func (s *TodoService) For(callerID string) *CallerScope {
	return &CallerScope{svc: s, callerID: callerID}
}

func (c *CallerScope) ListAll(ctx context.Context) ([]models.TodoList, error) {
	return c.svc.ListAll(ctx, c.callerID), nil
}

func (c *CallerScope) CreateList(ctx context.Context, title string, description *string) (*models.TodoList, error) {
	return c.svc.CreateList(ctx, c.callerID, title, description)
}

func (c *CallerScope) DeleteList(ctx context.Context, listID string) error {
	return c.svc.DeleteList(ctx, c.callerID, listID)
}

func (c *CallerScope) AddItem(ctx context.Context, listID, title string) (*models.TodoItem, error) {
	return c.svc.AddItem(ctx, c.callerID, listID, title)
}

func (c *CallerScope) ToggleItem(ctx context.Context, itemID string) (*models.TodoItem, error) {
	return c.svc.ToggleItem(ctx, c.callerID, itemID)
}

func (c *CallerScope) DeleteItem(ctx context.Context, itemID string) error {
	return c.svc.DeleteItem(ctx, c.callerID, itemID)
}
