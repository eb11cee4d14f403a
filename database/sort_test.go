package database

import (
	"testing"
	"time"

	"github.com/jalexanderII/zero-todo/models"
	"github.com/stretchr/testify/assert"
)

func TestSortItemsByCreation(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	// embedded documents come back in $push order
	items := []models.TodoItem{
		{ID: "late", CreatedAt: at.Add(2 * time.Second)},
		{ID: "early", CreatedAt: at},
		{ID: "mid", CreatedAt: at.Add(time.Second)},
	}
	sortItems(items)

	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.ID
	}
	assert.Equal(t, []string{"early", "mid", "late"}, got)
}
