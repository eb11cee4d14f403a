package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jalexanderII/zero-todo/config"
	"github.com/jalexanderII/zero-todo/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store persists TodoLists and their TodoItems.
//
// Every method that touches an existing resource takes the caller's id and returns
// models.ErrForbidden when the resource is missing or owned by someone else. The ownership
// check and the write happen atomically.
type Store interface {
	// ListsByOwner returns the owner's lists newest first, items oldest first.
	ListsByOwner(ctx context.Context, ownerID string) ([]models.TodoList, error)
	InsertList(ctx context.Context, list *models.TodoList) error
	// DeleteList removes the list and all its items.
	DeleteList(ctx context.Context, ownerID, listID string) error
	InsertItem(ctx context.Context, ownerID string, item *models.TodoItem) error
	// ToggleItem flips completed, sets updated_at to now and returns the stored item.
	ToggleItem(ctx context.Context, ownerID, itemID string, now time.Time) (*models.TodoItem, error)
	DeleteItem(ctx context.Context, ownerID, itemID string) error
	Close(ctx context.Context) error
}

// Open builds the Store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, l logrus.FieldLogger) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		l.Info("using in-memory store")
		return NewMemoryStore(), nil
	case config.DriverMongo:
		client, err := StartMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		l.WithField("database", cfg.Database).Info("connected to MongoDB")
		return NewMongoStore(client, client.Database(cfg.Database).Collection(cfg.ListCollection)), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := sqlx.ConnectContext(ctx, cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "connect %s", cfg.StoreDriver)
		}
		if cfg.StoreDriver == config.DriverSQLite {
			// each connection to an in-memory sqlite database is its own database
			db.SetMaxOpenConns(1)
		}
		s := NewSQLStore(db)
		if err = s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		l.WithField("driver", cfg.StoreDriver).Info("connected to SQL database")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// sortItems orders items by creation time, oldest first. Embedded item arrays keep
// $push order, which need not match created_at.
func sortItems(items []models.TodoItem) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})
}
