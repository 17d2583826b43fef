package usecase_test

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/catalog-service/internal/application/cache"
	"github.com/jhoicas/catalog-service/internal/application/usecase"
	"github.com/jhoicas/catalog-service/internal/application/usecase/usecasetest"
	"github.com/jhoicas/catalog-service/internal/domain/entity"
	"github.com/jhoicas/catalog-service/internal/infrastructure/memcache"
	"github.com/jhoicas/catalog-service/pkg/logger"
)

var errStoreDown = errors.New("store caído")

// ─── Entorno ─────────────────────────────────────────────────────────────────

type env struct {
	categories *usecasetest.CategoryRepo
	products   *usecasetest.ProductRepo
	tx         *usecasetest.Tx
	cache      *memcache.Cache
	catUC      *usecase.CategoryUseCase
	prodUC     *usecase.ProductUseCase
}

func newEnv() *env {
	e := &env{
		categories: usecasetest.NewCategoryRepo(),
		products:   usecasetest.NewProductRepo(),
		cache:      memcache.New(),
	}
	e.tx = &usecasetest.Tx{Categories: e.categories, Products: e.products}
	log := logger.Nop()
	reads := cache.NewAccessor(e.cache, nil, log, cache.AccessorConfig{Timeout: time.Second})
	inv := cache.NewInvalidator(e.cache, nil, log, time.Second)
	e.catUC = usecase.NewCategoryUseCase(e.categories, e.tx, reads, inv, 30*time.Minute)
	e.prodUC = usecase.NewProductUseCase(e.products, e.categories, e.tx, reads, inv,
		usecase.ProductTTLs{List: 5 * time.Minute, Detail: 10 * time.Minute},
		usecase.PageLimits{DefaultSize: 20, MaxSize: 100})
	return e
}

func (e *env) cached(key string) bool {
	ok, _ := e.cache.Exists(context.Background(), key)
	return ok
}

func (e *env) seedKeys(keys ...string) {
	for _, k := range keys {
		_ = e.cache.Set(context.Background(), k, []byte(`{}`), time.Minute)
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func category(id string, parent *string) entity.Category {
	now := time.Now()
	return entity.Category{ID: id, Name: "Cat " + id, ParentID: parent, IsActive: true, CreatedAt: now, UpdatedAt: now}
}
