package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-service/internal/infrastructure/memcache"
)

func TestMetrics_Cache(t *testing.T) {
	m := New("catalog")
	m.CacheHit("product")
	m.CacheHit("product")
	m.CacheMiss("products")
	m.CacheError("get")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("product")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses.WithLabelValues("products")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheErrors.WithLabelValues("get")))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New("catalog")
	m.ObserveRequest("GET", "/products/:id", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/products/:id", 404, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestErrors.WithLabelValues("GET", "/products/:id", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestErrors.WithLabelValues("GET", "/products/:id", "200")))
}

func TestMetrics_HandlerIncluyeStatsDeCache(t *testing.T) {
	mem := memcache.New()
	_, _ = mem.Get(context.Background(), "product:x")

	m := New("catalog")
	m.RegisterCacheStats("catalog", mem, time.Second)
	m.CacheHit("product")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "catalog_cache_server_up 1")
	assert.Contains(t, string(body), "catalog_cache_server_keyspace_misses 1")
	assert.Contains(t, string(body), `catalog_cache_hits_total{view="product"} 1`)
}
