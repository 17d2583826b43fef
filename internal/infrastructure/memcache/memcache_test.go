package memcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-service/internal/application/ports"
	"github.com/jhoicas/catalog-service/internal/infrastructure/memcache"
)

func TestMemcache_GetSetDelete(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()

	_, err := c.Get(ctx, "product:1")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "product:1", []byte(`{"id":"1"}`), time.Minute))
	v, err := c.Get(ctx, "product:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(v))

	require.NoError(t, c.Delete(ctx, "product:1"))
	ok, err := c.Exists(ctx, "product:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemcache_Expira(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
	assert.Zero(t, c.Len())
}

func TestMemcache_TTL_Centinelas(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()

	ttl, err := c.TTL(ctx, "nada")
	require.NoError(t, err)
	assert.Equal(t, -2*time.Second, ttl)

	require.NoError(t, c.Set(ctx, "perm", []byte("v"), 0))
	ttl, _ = c.TTL(ctx, "perm")
	assert.Equal(t, -1*time.Second, ttl)

	require.NoError(t, c.Set(ctx, "temp", []byte("v"), time.Minute))
	ttl, _ = c.TTL(ctx, "temp")
	assert.InDelta(t, 59, ttl.Seconds(), 1)
}

func TestMemcache_DeletePattern(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()
	for _, k := range []string{"products:page:1:size:20", "products:cat:ropa:page:1:size:20", "product:1", "categories:tree:inactive:false"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), time.Minute))
	}

	n, err := c.DeletePattern(ctx, "products:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 2, c.Len())

	ok, _ := c.Exists(ctx, "product:1")
	assert.True(t, ok, "product:1 no coincide con products:*")
}

func TestMemcache_Increment(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()

	v, err := c.Increment(ctx, "hits", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
	v, err = c.Increment(ctx, "hits", -2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	require.NoError(t, c.Set(ctx, "texto", []byte("abc"), 0))
	_, err = c.Increment(ctx, "texto", 1)
	assert.Error(t, err)
}

func TestMemcache_Stats(t *testing.T) {
	c := memcache.New()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "otra")

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.KeyspaceHits)
	assert.Equal(t, int64(1), stats.KeyspaceMisses)
	assert.Equal(t, int64(3), stats.TotalCommands)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.001)
}
