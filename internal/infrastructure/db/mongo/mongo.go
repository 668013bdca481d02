package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 20
)

// Config holds the portal's MongoDB settings. The database carries the audit
// trail and the catalog; both are written far less often than read.
type Config struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
	Timeout     time.Duration
}

func (cfg Config) clientOptions(timeout time.Duration) *options.ClientOptions {
	pool := cfg.MaxPoolSize
	if pool == 0 {
		pool = defaultMaxPoolSize
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(pool).
		SetServerSelectionTimeout(timeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	return opts
}

// Connect opens the client, waits for a primary and returns the portal
// database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, cfg.clientOptions(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect %s: %w", cfg.Database, err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}
