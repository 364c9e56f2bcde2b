package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *RedisCache {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}
	c := NewRedisCache(RedisOptions{Addr: addr})
	require.NoError(t, c.Ping(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()
	key := "test:" + uuid.New().String()

	_, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.Set(ctx, key, "[]", time.Minute))
	value, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "[]", value)

	require.NoError(t, c.Delete(ctx, key))
	_, found, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisCacheDeleteNoKeys(t *testing.T) {
	c := newTestRedis(t)
	require.NoError(t, c.Delete(context.Background()))
}
