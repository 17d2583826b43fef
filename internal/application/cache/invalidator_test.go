package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalog-service/internal/application/cache"
	"github.com/jhoicas/catalog-service/internal/infrastructure/memcache"
	"github.com/jhoicas/catalog-service/pkg/logger"
)

func seed(t *testing.T, mem *memcache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, mem.Set(context.Background(), k, []byte(`{}`), time.Minute))
	}
}

func exists(mem *memcache.Cache, key string) bool {
	ok, _ := mem.Exists(context.Background(), key)
	return ok
}

var allKeys = []string{
	"product:p1",
	"product:p2",
	"products:page:1:size:20",
	"products:cat:c1:page:1:size:20",
	"category:c1",
	"category:c2",
	"categories:list:inactive:false",
	"categories:tree:inactive:false",
}

func TestInvalidator_ProductCreated_SoloListas(t *testing.T) {
	mem := memcache.New()
	seed(t, mem, allKeys...)
	cache.NewInvalidator(mem, nil, logger.Nop(), time.Second).ProductCreated(context.Background())

	assert.False(t, exists(mem, "products:page:1:size:20"))
	assert.False(t, exists(mem, "products:cat:c1:page:1:size:20"))
	assert.True(t, exists(mem, "product:p1"))
	assert.True(t, exists(mem, "categories:list:inactive:false"))
}

func TestInvalidator_ProductChanged_EntidadYListas(t *testing.T) {
	mem := memcache.New()
	seed(t, mem, allKeys...)
	cache.NewInvalidator(mem, nil, logger.Nop(), time.Second).ProductChanged(context.Background(), "p1")

	assert.False(t, exists(mem, "product:p1"))
	assert.False(t, exists(mem, "products:page:1:size:20"))
	assert.True(t, exists(mem, "product:p2"))
	assert.True(t, exists(mem, "category:c1"))
}

func TestInvalidator_CategoryChanged_VariosIDs(t *testing.T) {
	mem := memcache.New()
	seed(t, mem, allKeys...)
	cache.NewInvalidator(mem, nil, logger.Nop(), time.Second).CategoryChanged(context.Background(), "c1", "c2")

	assert.False(t, exists(mem, "category:c1"))
	assert.False(t, exists(mem, "category:c2"))
	assert.False(t, exists(mem, "categories:list:inactive:false"))
	assert.False(t, exists(mem, "categories:tree:inactive:false"))
	assert.False(t, exists(mem, "product:p1"), "el detalle embebe la categoría")
	assert.False(t, exists(mem, "product:p2"))
	assert.True(t, exists(mem, "products:page:1:size:20"))
}

func TestInvalidator_SinCoincidencias_NoEsError(t *testing.T) {
	mem := memcache.New()
	inv := cache.NewInvalidator(mem, nil, logger.Nop(), time.Second)
	assert.NotPanics(t, func() { inv.CategoryCreated(context.Background()) })
	assert.Equal(t, 0, mem.Len())
}

func TestInvalidator_ContextoCancelado_IgualInvalida(t *testing.T) {
	mem := memcache.New()
	seed(t, mem, allKeys...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache.NewInvalidator(mem, nil, logger.Nop(), time.Second).ProductChanged(ctx, "p2")
	assert.False(t, exists(mem, "product:p2"))
}

func TestInvalidator_CacheCaida_NoPanica(t *testing.T) {
	rec := &countingRecorder{}
	inv := cache.NewInvalidator(brokenCache{memcache.New()}, rec, logger.Nop(), time.Second)
	assert.NotPanics(t, func() { inv.ProductChanged(context.Background(), "p1") })
	assert.Equal(t, int64(2), rec.errs.Load())
}
