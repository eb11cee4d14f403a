package models

import (
	"time"
)

const (
	MaxListTitleLen   = 100
	MaxDescriptionLen = 500
	MaxItemTitleLen   = 200

	// TempIDPrefix marks ids synthesized on the client before the server assigns one.
	TempIDPrefix = "temp-"
)

// TodoItem is a single entry of a TodoList
type TodoItem struct {
	ID         string    `json:"id" bson:"_id" db:"id"`
	Title      string    `json:"title" bson:"title" db:"title"`
	Completed  bool      `json:"completed" bson:"completed" db:"completed"`
	TodoListID string    `json:"todoListId" bson:"todo_list_id" db:"todo_list_id"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

// TodoList is a user owned, titled collection of TodoItems.
// TodoItems are ordered by creation time ascending.
type TodoList struct {
	ID          string     `json:"id" bson:"_id" db:"id"`
	Title       string     `json:"title" bson:"title" db:"title"`
	Description *string    `json:"description" bson:"description,omitempty" db:"description"`
	CreatedByID string     `json:"createdById" bson:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at" db:"updated_at"`
	TodoItems   []TodoItem `json:"todoItems" bson:"todo_items" db:"-"`
}

type CreateListRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type AddItemRequest struct {
	Title string `json:"title" validate:"required,notblank,max=200"`
}

func (l *TodoList) CompletedCount() int {
	n := 0
	for _, item := range l.TodoItems {
		if item.Completed {
			n++
		}
	}
	return n
}

// ItemIndex returns the position of the item with the given id, or -1.
func (l *TodoList) ItemIndex(itemID string) int {
	for i := range l.TodoItems {
		if l.TodoItems[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the list, including its items and description.
func (l TodoList) Clone() TodoList {
	out := l
	if l.Description != nil {
		d := *l.Description
		out.Description = &d
	}
	if l.TodoItems != nil {
		out.TodoItems = make([]TodoItem, len(l.TodoItems))
		copy(out.TodoItems, l.TodoItems)
	}
	return out
}

// CloneLists deep copies a slice of lists. A nil slice stays nil.
func CloneLists(lists []TodoList) []TodoList {
	if lists == nil {
		return nil
	}
	out := make([]TodoList, len(lists))
	for i := range lists {
		out[i] = lists[i].Clone()
	}
	return out
}

func IsTempID(id string) bool {
	return len(id) >= len(TempIDPrefix) && id[:len(TempIDPrefix)] == TempIDPrefix
}
