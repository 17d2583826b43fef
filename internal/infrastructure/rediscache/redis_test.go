package rediscache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-service/internal/application/ports"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(Config{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "product:p1")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "product:p1", []byte(`{"id":"p1"}`), time.Minute))
	raw, err := c.Get(ctx, "product:p1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"p1"}`, string(raw))

	ok, err := c.Exists(ctx, "product:p1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "product:p1"))
	require.NoError(t, c.Delete(ctx, "product:p1"), "borrar una clave inexistente no es error")
	ok, _ = c.Exists(ctx, "product:p1")
	assert.False(t, ok)
}

func TestCache_TTL_Centinelas(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	d, err := c.TTL(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, -2*time.Second, d)

	require.NoError(t, c.Set(ctx, "forever", []byte("1"), 0))
	d, err = c.TTL(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, -1*time.Second, d)

	require.NoError(t, c.Set(ctx, "temp", []byte("1"), 300*time.Second))
	d, err = c.TTL(ctx, "temp")
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, d)
}

func TestCache_DeletePattern_VariosLotes(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("products:page:%d:size:20", i), "{}"))
	}
	require.NoError(t, mr.Set("product:p1", "{}"))
	require.NoError(t, mr.Set("categories:list:inactive:false", "{}"))

	n, err := c.DeletePattern(ctx, "products:*")
	require.NoError(t, err)
	assert.Equal(t, int64(250), n)
	assert.True(t, mr.Exists("product:p1"))
	assert.True(t, mr.Exists("categories:list:inactive:false"))
}

func TestCache_DeletePattern_SinCoincidencias(t *testing.T) {
	c, _ := newTestCache(t)
	n, err := c.DeletePattern(context.Background(), "categories:*")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCache_Increment(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	v, err := c.Increment(ctx, "counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
	v, err = c.Increment(ctx, "counter", -2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestCache_PingYCaida(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestParseInfo(t *testing.T) {
	info := "# Server\r\nuptime_in_seconds:3600\r\n\r\n# Clients\r\nconnected_clients:4\r\n" +
		"# Memory\r\nused_memory:1048576\r\nused_memory_human:1.00M\r\n" +
		"# Stats\r\ntotal_commands_processed:42\r\nkeyspace_hits:30\r\nkeyspace_misses:10\r\n"
	s := parseInfo(info)
	assert.Equal(t, int64(3600), s.UptimeInSeconds)
	assert.Equal(t, int64(4), s.ConnectedClients)
	assert.Equal(t, int64(1048576), s.UsedMemory)
	assert.Equal(t, "1.00M", s.UsedMemoryHuman)
	assert.Equal(t, int64(42), s.TotalCommands)
	assert.InDelta(t, 0.75, s.HitRate(), 0.0001)
}
