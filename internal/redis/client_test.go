package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudguard/config"
)

type cachedStats struct {
	Total int64  `json:"total"`
	Label string `json:"label"`
}

func setupTestRedis(t *testing.T) *Client {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host: "127.0.0.1",
			Port: "6379",
			DB:   15,
		},
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Skipf("Skipping test: Redis not available: %v", err)
	}

	ctx := context.Background()
	client.rdb.FlushDB(ctx)
	t.Cleanup(func() {
		client.rdb.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestClient_SetGetJSON(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "analytics:dashboard", cachedStats{Total: 7, Label: "x"}, time.Minute))

	var got cachedStats
	found, err := client.GetJSON(ctx, "analytics:dashboard", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedStats{Total: 7, Label: "x"}, got)

	found, err = client.GetJSON(ctx, "analytics:missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_DeletePrefix(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	for _, key := range []string{"analytics:a", "analytics:b", "other:c"} {
		require.NoError(t, client.SetJSON(ctx, key, 1, time.Minute))
	}
	require.NoError(t, client.DeletePrefix(ctx, "analytics:"))

	var v int
	found, err := client.GetJSON(ctx, "analytics:a", &v)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = client.GetJSON(ctx, "other:c", &v)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.SetJSON(ctx, "analytics:stats", cachedStats{Total: 3}, 30*time.Second))
	require.NoError(t, cache.SetJSON(ctx, "keep", "v", 0))

	var got cachedStats
	found, err := cache.GetJSON(ctx, "analytics:stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 3, got.Total)

	now = now.Add(31 * time.Second)
	found, err = cache.GetJSON(ctx, "analytics:stats", &got)
	require.NoError(t, err)
	assert.False(t, found)

	var s string
	found, err = cache.GetJSON(ctx, "keep", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", s)
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.SetJSON(ctx, "analytics:a", 1, time.Minute))
	require.NoError(t, cache.SetJSON(ctx, "analytics:b", 2, time.Minute))
	require.NoError(t, cache.SetJSON(ctx, "rules", 3, time.Minute))
	require.NoError(t, cache.DeletePrefix(ctx, "analytics:"))

	assert.Len(t, cache.entries, 1)
	assert.NoError(t, cache.Ping(ctx))
}

func TestMemoryCache_EvictKeepsRefreshedEntry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.SetJSON(ctx, "analytics:stats", cachedStats{Total: 1}, time.Second))
	now = now.Add(2 * time.Second)

	// A reader saw the stale entry; a writer refreshes it before the reader evicts.
	stale := cache.entries["analytics:stats"]
	require.True(t, cache.expired(stale))
	require.NoError(t, cache.SetJSON(ctx, "analytics:stats", cachedStats{Total: 2}, time.Minute))
	cache.evictExpired("analytics:stats")

	var got cachedStats
	found, err := cache.GetJSON(ctx, "analytics:stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 2, got.Total)

	now = now.Add(2 * time.Minute)
	cache.evictExpired("analytics:stats")
	assert.Empty(t, cache.entries)
}
