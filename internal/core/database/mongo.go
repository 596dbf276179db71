package database

import (
	"context"
	"fmt"
	"time"

	"agromarket/internal/core/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Mongo wraps the driver client and exposes the collections used by the
// marketplace core.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against the configured MongoDB deployment and
// verifies the connection with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Orders returns the orders collection.
func (m *Mongo) Orders() *mongo.Collection {
	return m.db.Collection("orders")
}

// Products returns the products collection.
func (m *Mongo) Products() *mongo.Collection {
	return m.db.Collection("products")
}

// Ping checks if the deployment is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
