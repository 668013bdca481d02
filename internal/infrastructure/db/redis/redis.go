package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPoolSize = 20
	// Session reads and writes sit on every request path.
	opTimeout = 500 * time.Millisecond
)

// Config holds the settings of the Redis instance backing visitor sessions
// and the booking submit guard.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

func (cfg Config) options() *redis.Options {
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     pool,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	}
}

// Connect opens a client and pings it within cfg.Timeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
