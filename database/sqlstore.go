package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jalexanderII/zero-todo/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// schema is valid for both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS todo_lists (
		id            TEXT PRIMARY KEY,
		title         VARCHAR(100) NOT NULL,
		description   VARCHAR(500),
		created_by_id TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS todo_lists_created_by_id_idx ON todo_lists (created_by_id)`,
	`CREATE TABLE IF NOT EXISTS todo_items (
		id           TEXT PRIMARY KEY,
		title        VARCHAR(200) NOT NULL,
		completed    BOOLEAN NOT NULL DEFAULT FALSE,
		todo_list_id TEXT NOT NULL REFERENCES todo_lists (id) ON DELETE CASCADE,
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS todo_items_todo_list_id_idx ON todo_items (todo_list_id)`,
}

const (
	listColumns = `id, title, description, created_by_id, created_at, updated_at`
	itemColumns = `id, title, completed, todo_list_id, created_at, updated_at`

	// pq error code for foreign_key_violation
	pqForeignKeyViolation = "23503"
)

// SQLStore is a Store over PostgreSQL or SQLite. Queries are written with ? placeholders
// and rebound for the driver in use.
type SQLStore struct {
	DB *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// Migrate creates the tables when they do not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}

func (s *SQLStore) ListsByOwner(ctx context.Context, ownerID string) ([]models.TodoList, error) {
	lists := make([]models.TodoList, 0)
	query := s.DB.Rebind(`SELECT ` + listColumns + ` FROM todo_lists WHERE created_by_id = ? ORDER BY created_at DESC`)
	if err := s.DB.SelectContext(ctx, &lists, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "select lists")
	}
	if len(lists) == 0 {
		return lists, nil
	}

	ids := make([]string, len(lists))
	byID := make(map[string]int, len(lists))
	for i := range lists {
		ids[i] = lists[i].ID
		byID[lists[i].ID] = i
		lists[i].TodoItems = []models.TodoItem{}
	}

	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM todo_items WHERE todo_list_id IN (?) ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build item query")
	}
	var items []models.TodoItem
	if err = s.DB.SelectContext(ctx, &items, s.DB.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select items")
	}
	for _, item := range items {
		i := byID[item.TodoListID]
		lists[i].TodoItems = append(lists[i].TodoItems, item)
	}
	return lists, nil
}

func (s *SQLStore) InsertList(ctx context.Context, list *models.TodoList) error {
	query := s.DB.Rebind(`INSERT INTO todo_lists (` + listColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.DB.ExecContext(ctx, query,
		list.ID, list.Title, list.Description, list.CreatedByID, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "insert list")
	}
	if list.TodoItems == nil {
		list.TodoItems = []models.TodoItem{}
	}
	return nil
}

func (s *SQLStore) DeleteList(ctx context.Context, ownerID, listID string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM todo_lists WHERE id = ? AND created_by_id = ?`), listID, ownerID)
		if err != nil {
			return errors.Wrap(err, "delete list")
		}
		if err = expectRows(res); err != nil {
			return err
		}
		// sqlite only cascades with foreign_keys enabled
		if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM todo_items WHERE todo_list_id = ?`), listID); err != nil {
			return errors.Wrap(err, "delete list items")
		}
		return nil
	})
}

func (s *SQLStore) InsertItem(ctx context.Context, ownerID string, item *models.TodoItem) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var owned int
		err := tx.GetContext(ctx, &owned, tx.Rebind(`SELECT COUNT(1) FROM todo_lists WHERE id = ? AND created_by_id = ?`), item.TodoListID, ownerID)
		if err != nil {
			return errors.Wrap(err, "check list owner")
		}
		if owned == 0 {
			return models.ErrForbidden
		}

		query := tx.Rebind(`INSERT INTO todo_items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
		_, err = tx.ExecContext(ctx, query,
			item.ID, item.Title, item.Completed, item.TodoListID, item.CreatedAt, item.UpdatedAt)
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == pqForeignKeyViolation {
			// list deleted between the check and the insert
			return models.ErrForbidden
		}
		if err != nil {
			return errors.Wrap(err, "insert item")
		}
		return nil
	})
}

func (s *SQLStore) ToggleItem(ctx context.Context, ownerID, itemID string, now time.Time) (*models.TodoItem, error) {
	var item models.TodoItem
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE todo_items SET completed = NOT completed, updated_at = ?
			WHERE id = ? AND todo_list_id IN (SELECT id FROM todo_lists WHERE created_by_id = ?)`), now, itemID, ownerID)
		if err != nil {
			return errors.Wrap(err, "toggle item")
		}
		if err = expectRows(res); err != nil {
			return err
		}
		err = tx.GetContext(ctx, &item, tx.Rebind(`SELECT `+itemColumns+` FROM todo_items WHERE id = ?`), itemID)
		return errors.Wrap(err, "reload item")
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SQLStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(`DELETE FROM todo_items
		WHERE id = ? AND todo_list_id IN (SELECT id FROM todo_lists WHERE created_by_id = ?)`), itemID, ownerID)
	if err != nil {
		return errors.Wrap(err, "delete item")
	}
	return expectRows(res)
}

func (s *SQLStore) Close(context.Context) error {
	return s.DB.Close()
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// expectRows maps "no row matched" to ErrForbidden.
func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return models.ErrForbidden
	}
	return nil
}
