package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInvalidURL(t *testing.T) {
	err := Init("://invalid-url", "")
	assert.Error(t, err)
}

func TestInitPingFailure(t *testing.T) {
	t.Cleanup(func() { _ = Close() })
	err := Init("redis://127.0.0.1:0", "")
	assert.Error(t, err)
	assert.False(t, Enabled())
}

func TestInitAndOperations(t *testing.T) {
	srv := miniredis.RunT(t)
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, Init("redis://"+srv.Addr(), ""))
	require.True(t, Enabled())
	ctx := context.Background()

	require.NoError(t, Set(ctx, "team:1", "Halcones", time.Minute))
	val, err := Get(ctx, "team:1")
	require.NoError(t, err)
	assert.Equal(t, "Halcones", val)

	ok, err := SetNX(ctx, "team:1", "Tigres", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Del(ctx, "team:1"))
	_, err = Get(ctx, "team:1")
	assert.True(t, IsNil(err))

	srv.FastForward(2 * time.Minute)
	ok, err = SetNX(ctx, "lock", "x", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	srv.FastForward(2 * time.Second)
	assert.False(t, srv.Exists("lock"))
}

func TestSetClientWithUnreachableRedis(t *testing.T) {
	cli := goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:0",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
	})
	SetClient(cli)
	t.Cleanup(func() { _ = Close() })
	assert.NotNil(t, GetClient())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, Set(ctx, "k", "v", time.Second))
	_, err := Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, IsNil(err))
	assert.Error(t, Del(ctx, "k"))
	_, err = SetNX(ctx, "k", "v", time.Second)
	assert.Error(t, err)
}

func TestCloseWithoutClient(t *testing.T) {
	SetClient(nil)
	assert.NoError(t, Close())
}
