package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jalexanderII/zero-todo/models"
)

// MemoryStore keeps everything in process. It backs local development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string]*models.TodoList
	// itemID -> listID
	items map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lists: make(map[string]*models.TodoList),
		items: make(map[string]string),
	}
}

func (s *MemoryStore) ListsByOwner(_ context.Context, ownerID string) ([]models.TodoList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := make([]models.TodoList, 0)
	for _, l := range s.lists {
		if l.CreatedByID == ownerID {
			lists = append(lists, l.Clone())
		}
	}
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})
	for i := range lists {
		sortItems(lists[i].TodoItems)
	}
	return lists, nil
}

func (s *MemoryStore) InsertList(_ context.Context, list *models.TodoList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if list.TodoItems == nil {
		list.TodoItems = []models.TodoItem{}
	}
	stored := list.Clone()
	s.lists[list.ID] = &stored
	return nil
}

func (s *MemoryStore) DeleteList(_ context.Context, ownerID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.owned(ownerID, listID)
	if !ok {
		return models.ErrForbidden
	}
	for _, item := range l.TodoItems {
		delete(s.items, item.ID)
	}
	delete(s.lists, listID)
	return nil
}

func (s *MemoryStore) InsertItem(_ context.Context, ownerID string, item *models.TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.owned(ownerID, item.TodoListID)
	if !ok {
		return models.ErrForbidden
	}
	l.TodoItems = append(l.TodoItems, *item)
	s.items[item.ID] = l.ID
	return nil
}

func (s *MemoryStore) ToggleItem(_ context.Context, ownerID, itemID string, now time.Time) (*models.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, idx, ok := s.ownedItem(ownerID, itemID)
	if !ok {
		return nil, models.ErrForbidden
	}
	item := &l.TodoItems[idx]
	item.Completed = !item.Completed
	item.UpdatedAt = now
	out := *item
	return &out, nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, ownerID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, idx, ok := s.ownedItem(ownerID, itemID)
	if !ok {
		return models.ErrForbidden
	}
	l.TodoItems = append(l.TodoItems[:idx], l.TodoItems[idx+1:]...)
	delete(s.items, itemID)
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

func (s *MemoryStore) owned(ownerID, listID string) (*models.TodoList, bool) {
	l, ok := s.lists[listID]
	if !ok || l.CreatedByID != ownerID {
		return nil, false
	}
	return l, true
}

func (s *MemoryStore) ownedItem(ownerID, itemID string) (*models.TodoList, int, bool) {
	listID, ok := s.items[itemID]
	if !ok {
		return nil, 0, false
	}
	l, ok := s.owned(ownerID, listID)
	if !ok {
		return nil, 0, false
	}
	idx := l.ItemIndex(itemID)
	return l, idx, idx >= 0
}
