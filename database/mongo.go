package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Performance = 100

// StartMongoDB connects to uri and pings the primary before returning the client.
func StartMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("you must set your 'MONGODB_URI' environmental variable. See\n\t https://www.mongodb.com/docs/drivers/go/current/usage-examples/#environment-variable")
	}

	dbCtx, cancel := NewDBContext(ctx, 10*time.Second)
	defer cancel()

	// Set client options
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(dbCtx, clientOptions)
	if err != nil {
		return nil, err
	}
	// Check the connection
	if err = client.Ping(dbCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// NewDBContext returns a new Context according to app performance
func NewDBContext(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d*Performance/100)
}
