package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MaxRetries     int
	RetryInterval  time.Duration
}

// DefaultMongoConfig returns sane connection defaults
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:            "mongodb://localhost:27017",
		Database:       "hostelpg",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    100,
		MaxRetries:     3,
		RetryInterval:  1 * time.Second,
	}
}

// MongoDB wraps a mongo client with its application database handle
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and verifies connectivity with retries
func NewMongo(ctx context.Context, cfg *MongoConfig) (*MongoDB, error) {
	if cfg == nil {
		cfg = DefaultMongoConfig()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 1 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		client, err := mongo.Connect(opts)
		if err != nil {
			lastErr = err
		} else {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			err = client.Ping(pingCtx, readpref.Primary())
			cancel()
			if err == nil {
				return &MongoDB{
					client: client,
					db:     client.Database(cfg.Database),
				}, nil
			}
			lastErr = err
			_ = client.Disconnect(ctx)
		}

		if attempt < cfg.MaxRetries {
			select {
			case <-time.After(cfg.RetryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to mongodb after %d attempts: %w", cfg.MaxRetries, lastErr)
}

// Client returns the underlying mongo client
func (m *MongoDB) Client() *mongo.Client {
	return m.client
}

// Database returns the application database handle
func (m *MongoDB) Database() *mongo.Database {
	return m.db
}

// Collection returns a collection handle by name
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Ping checks database connectivity
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
