package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = NewRedisCache("not a url")
	assert.Error(t, err)
}

func TestGetSetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, Miss))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.True(t, errors.Is(err, Miss))

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	assert.NoError(t, c.Delete(ctx))
}

func TestIncrWindow(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "rate:x", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	ttl, err := c.TTL(ctx, "rate:x")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(time.Minute + time.Second)
	n, err := c.Incr(ctx, "rate:x", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIncrKeepsWindowStart(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "rate:y", time.Minute)
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)
	n, err := c.Incr(ctx, "rate:y", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.LessOrEqual(t, mr.TTL("rate:y"), 20*time.Second)

	mr.FastForward(21 * time.Second)
	n, err = c.Incr(ctx, "rate:y", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "incidents:list:all", ListKey(""))
	assert.Equal(t, "incidents:list:hate_speech", ListKey("hate_speech"))
}
