package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/catalog-service/internal/application/dto"
	"github.com/jhoicas/catalog-service/internal/application/ports"
)

// Pinger dependencia con chequeo de conectividad (p.ej. *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServiceInfo datos estáticos que reporta health.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
	DBTarget    string // host/db sin credenciales
}

// HealthUseCase sondea base de datos y caché.
type HealthUseCase struct {
	db      Pinger
	cache   ports.Cache
	info    ServiceInfo
	timeout time.Duration
	now     func() time.Time
}

// NewHealthUseCase construye el caso de uso. timeout acota cada sondeo.
func NewHealthUseCase(db Pinger, c ports.Cache, info ServiceInfo, timeout time.Duration) *HealthUseCase {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthUseCase{db: db, cache: c, info: info, timeout: timeout, now: time.Now}
}

// Basic estado del proceso, sin tocar dependencias.
func (uc *HealthUseCase) Basic() dto.HealthResponse {
	return uc.base("healthy")
}

// Ready true solo si base de datos y caché responden.
func (uc *HealthUseCase) Ready(ctx context.Context) (dto.ReadinessResponse, bool) {
	dbOK := uc.probe(ctx, uc.db.Ping) == nil
	cacheOK := uc.probe(ctx, uc.cache.Ping) == nil
	ready := dbOK && cacheOK
	status := "ready"
	if !ready {
		status = "not_ready"
	}
	return dto.ReadinessResponse{
		Status: status,
		Checks: map[string]bool{"database": dbOK, "cache": cacheOK},
	}, ready
}

// Detailed estado de cada dependencia; degraded si alguna falla.
func (uc *HealthUseCase) Detailed(ctx context.Context) dto.DetailedHealthResponse {
	db := uc.component(ctx, uc.db.Ping)
	db.Target = uc.info.DBTarget

	cache := uc.component(ctx, uc.cache.Ping)
	if cache.Status == "connected" {
		sctx, cancel := context.WithTimeout(ctx, uc.timeout)
		if stats, err := uc.cache.Stats(sctx); err == nil {
			cache.Stats = stats
		}
		cancel()
	}

	status := "healthy"
	if db.Status != "connected" || cache.Status != "connected" {
		status = "degraded"
	}
	return dto.DetailedHealthResponse{
		HealthResponse: uc.base(status),
		Database:       db,
		Cache:          cache,
		Dependencies: map[string]dto.DependencyStatus{
			"main_service": {Status: "unknown", Description: "API gateway principal"},
		},
	}
}

func (uc *HealthUseCase) component(ctx context.Context, ping func(context.Context) error) dto.ComponentHealth {
	start := uc.now()
	err := uc.probe(ctx, ping)
	out := dto.ComponentHealth{
		Status:    "connected",
		LatencyMs: float64(uc.now().Sub(start).Microseconds()) / 1000,
	}
	if err != nil {
		out.Status = "disconnected"
		out.Error = err.Error()
	}
	return out
}

func (uc *HealthUseCase) probe(ctx context.Context, ping func(context.Context) error) error {
	pctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return ping(pctx)
}

func (uc *HealthUseCase) base(status string) dto.HealthResponse {
	return dto.HealthResponse{
		Service:     uc.info.Name,
		Status:      status,
		Timestamp:   uc.now().UTC(),
		Version:     uc.info.Version,
		Environment: uc.info.Environment,
	}
}
