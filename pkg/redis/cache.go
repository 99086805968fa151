package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores derived reports as JSON
// Keys always embed the config hash, so a parameter change never serves a stale report.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a cache under prefix
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get decodes a cached value into dest; a miss is (false, nil)
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores value with ttl (0 → client TTL)
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || !c.client.Enabled() {
		return nil
	}
	if ttl == 0 {
		ttl = c.client.TTL()
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || !c.client.Enabled() {
		return nil
	}
	return c.client.Redis().Del(ctx, c.key(key)).Err()
}

// GetOrSet reads key into dest, or computes it with fn and stores the result
// A failed store is ignored: the computed value is still returned.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err == nil && found {
		return cached, nil
	}

	value, err := fn()
	if err != nil {
		return value, err
	}
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}

// SnapshotKey identifies the portfolio report for (engine config, dataset)
func SnapshotKey(configHash, fingerprint string) string {
	return fmt.Sprintf("snapshot:%s:%s", short(configHash), short(fingerprint))
}

// ImpactKey identifies an impact report for (engine config, dataset, params)
func ImpactKey(configHash, fingerprint, paramsHash string) string {
	return fmt.Sprintf("impact:%s:%s:%s", short(configHash), short(fingerprint), short(paramsHash))
}

func short(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
