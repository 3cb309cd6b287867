package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, WithRedisPrefix("test:rl")), mr, rdb
}

func TestRedisStoreFixedWindow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, mr, _ := newRedisStore(t)
	lim := New(store, time.Minute, 2)

	// Act
	r1 := lim.Check(ctx, "10.0.0.1")
	r2 := lim.Check(ctx, "10.0.0.1")
	r3 := lim.Check(ctx, "10.0.0.1")

	// Assert
	assert.True(t, r1.Allowed)
	assert.Equal(t, 1, r1.Remaining)
	assert.True(t, r2.Allowed)
	assert.False(t, r3.Allowed)
	assert.Equal(t, 0, r3.Remaining)
	assert.Equal(t, int64(3), r3.Count)
	assert.True(t, mr.Exists("test:rl:10.0.0.1"))
	assert.InDelta(t, time.Minute, mr.TTL("test:rl:10.0.0.1"), float64(time.Second))

	mr.FastForward(time.Minute + time.Second)
	r4 := lim.Check(ctx, "10.0.0.1")
	assert.Equal(t, int64(1), r4.Count)
	assert.True(t, r4.Allowed)
}

func TestRedisStoreDeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	store, mr, rdb := newRedisStore(t)
	require.NoError(t, rdb.Set(ctx, "other:key", "1", 0).Err())

	for _, k := range []string{"a", "b", "c"} {
		_, _, err := store.Hit(ctx, k, time.Minute)
		require.NoError(t, err)
	}

	require.NoError(t, store.Delete(ctx, "a"))
	assert.False(t, mr.Exists("test:rl:a"))

	require.NoError(t, store.Flush(ctx))
	assert.False(t, mr.Exists("test:rl:b"))
	assert.False(t, mr.Exists("test:rl:c"))
	assert.True(t, mr.Exists("other:key"))
}

func TestRedisStoreUnavailableFailsOpen(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newRedisStore(t)
	mr.Close()

	res := New(store, time.Minute, 5).Check(ctx, "k")

	assert.True(t, res.Allowed)
}
