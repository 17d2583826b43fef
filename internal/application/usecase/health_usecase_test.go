package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/catalog-service/internal/application/ports"
	"github.com/jhoicas/catalog-service/internal/application/usecase"
	"github.com/jhoicas/catalog-service/internal/infrastructure/memcache"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// downCache memcache cuyo Ping siempre falla.
type downCache struct{ *memcache.Cache }

func (downCache) Ping(context.Context) error { return errStoreDown }

var info = usecase.ServiceInfo{Name: "catalog-service", Version: "1.0.0", Environment: "test", DBTarget: "db:5432/catalog"}

func okPinger() usecase.Pinger   { return pingerFunc(func(context.Context) error { return nil }) }
func downPinger() usecase.Pinger { return pingerFunc(func(context.Context) error { return errStoreDown }) }

func TestHealthBasic(t *testing.T) {
	uc := usecase.NewHealthUseCase(okPinger(), memcache.New(), info, time.Second)
	out := uc.Basic()
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "catalog-service", out.Service)
	assert.Equal(t, "1.0.0", out.Version)
}

func TestHealthReady_TodoArriba(t *testing.T) {
	uc := usecase.NewHealthUseCase(okPinger(), memcache.New(), info, time.Second)
	out, ready := uc.Ready(context.Background())
	assert.True(t, ready)
	assert.Equal(t, "ready", out.Status)
	assert.Equal(t, map[string]bool{"database": true, "cache": true}, out.Checks)
}

func TestHealthReady_BaseCaida(t *testing.T) {
	uc := usecase.NewHealthUseCase(downPinger(), memcache.New(), info, time.Second)
	out, ready := uc.Ready(context.Background())
	assert.False(t, ready)
	assert.Equal(t, "not_ready", out.Status)
	assert.False(t, out.Checks["database"])
	assert.True(t, out.Checks["cache"])
}

func TestHealthDetailed_CacheCaida_Degradado(t *testing.T) {
	var c ports.Cache = downCache{memcache.New()}
	uc := usecase.NewHealthUseCase(okPinger(), c, info, time.Second)

	out := uc.Detailed(context.Background())
	assert.Equal(t, "degraded", out.Status)
	assert.Equal(t, "connected", out.Database.Status)
	assert.Equal(t, "db:5432/catalog", out.Database.Target)
	assert.Equal(t, "disconnected", out.Cache.Status)
	assert.Nil(t, out.Cache.Stats)
	assert.Equal(t, "unknown", out.Dependencies["main_service"].Status)
}

func TestHealthDetailed_Sano_IncluyeStats(t *testing.T) {
	uc := usecase.NewHealthUseCase(okPinger(), memcache.New(), info, time.Second)
	out := uc.Detailed(context.Background())
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "connected", out.Cache.Status)
	assert.NotNil(t, out.Cache.Stats)
}
