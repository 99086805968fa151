package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a sliding-window limiter shared by every API replica
// Disabled clients allow everything; the in-process limiter still applies.
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig defines one window
type RateLimitConfig struct {
	Key    string
	Limit  int
	Window time.Duration
}

// SimulateRateLimit caps impact simulations per caller
var SimulateRateLimit = RateLimitConfig{
	Key:    "simulate",
	Limit:  30,
	Window: time.Minute,
}

var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)
	if count < limit then
		redis.call('ZADD', key, now, now)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	end
	return {0, 0}
`)

// NewRateLimiter creates a limiter under prefix
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

// Allow records one request by caller and reports (allowed, remaining)
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig, caller string) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s:%s", r.prefix, cfg.Key, caller)
	now := time.Now().UnixMilli()

	result, err := slidingWindow.Run(ctx, r.client.Redis(), []string{key},
		now,
		now-cfg.Window.Milliseconds(),
		cfg.Limit,
		cfg.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}
	return result[0] == 1, int(result[1]), nil
}
