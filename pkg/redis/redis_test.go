package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pdie/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.RedisConfig{Enabled: false, TTL: 15 * time.Minute})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.Equal(t, 15*time.Minute, client.TTL())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "pdie")

	allowed, remaining, err := limiter.Allow(context.Background(), SimulateRateLimit, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, SimulateRateLimit.Limit, remaining)
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(disabledClient(t), "pdie")

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, "key", "value", 0))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestGetOrSet_DisabledAlwaysComputes(t *testing.T) {
	cache := NewCache(disabledClient(t), "pdie")
	calls := 0
	fn := func() (int, error) {
		calls++
		return 42, nil
	}

	for range 2 {
		v, err := GetOrSet(context.Background(), cache, "answer", 0, fn)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 2, calls)

	boom := errors.New("boom")
	_, err := GetOrSet(context.Background(), cache, "fail", 0, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCacheKeys(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef"
	fp := "fedcba9876543210fedcba9876543210"

	assert.Equal(t, "snapshot:0123456789abcdef:fedcba9876543210", SnapshotKey(hash, fp))
	assert.Equal(t, "impact:0123456789abcdef:fedcba9876543210:abc", ImpactKey(hash, fp, "abc"))
}
