package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/pdie/pkg/config"
)

// Client wraps the Redis client; a disabled client turns every helper into a no-op
// ⭐ SSOT: Redis connections are created only here
type Client struct {
	rdb     *redis.Client
	enabled bool
	ttl     time.Duration
}

// New connects when cfg.Enabled, otherwise returns a disabled client
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false, ttl: cfg.TTL}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true, ttl: cfg.TTL}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled reports whether Redis is in use
func (c *Client) Enabled() bool {
	return c.enabled
}

// TTL is the configured lifetime of derived reports
func (c *Client) TTL() time.Duration {
	return c.ttl
}

// Redis returns the underlying client (nil when disabled)
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
