package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jhoicas/catalog-service/internal/application/cache"
	"github.com/jhoicas/catalog-service/internal/application/ports"
	"github.com/jhoicas/catalog-service/internal/application/usecase"
	"github.com/jhoicas/catalog-service/internal/infrastructure/memcache"
	"github.com/jhoicas/catalog-service/internal/infrastructure/metrics"
	"github.com/jhoicas/catalog-service/internal/infrastructure/postgres"
	"github.com/jhoicas/catalog-service/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/catalog-service/internal/interfaces/http"
	"github.com/jhoicas/catalog-service/pkg/config"
	"github.com/jhoicas/catalog-service/pkg/logger"
)

const metricsNamespace = "catalog"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("target", cfg.DB.SafeTarget()).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		log.Info().Msg("esquema al día")
	}

	store := openCache(ctx, cfg, log)
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar caché")
		}
	}()

	m := metrics.New(metricsNamespace)
	m.RegisterCacheStats(metricsNamespace, store, cfg.Cache.Timeout)

	reads := cache.NewAccessor(store, m, log, cache.AccessorConfig{
		Timeout:      cfg.Cache.Timeout,
		SingleFlight: cfg.Cache.SingleFlight,
		FetchTimeout: cfg.DB.Timeout,
	})
	inv := cache.NewInvalidator(store, m, log, 4*cfg.Cache.Timeout)

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, txRunner, reads, inv, cfg.Cache.TTLCategories)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, reads, inv,
		usecase.ProductTTLs{List: cfg.Cache.TTLProducts, Detail: cfg.Cache.TTLProductDetail},
		usecase.PageLimits{DefaultSize: cfg.Pagination.DefaultSize, MaxSize: cfg.Pagination.MaxSize},
	)
	healthUC := usecase.NewHealthUseCase(pool, store, usecase.ServiceInfo{
		Name:        cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Env,
		DBTarget:    cfg.DB.SafeTarget(),
	}, cfg.DB.Timeout)

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: las rutas de escritura quedan abiertas")
	}

	var docsFile string
	if cfg.App.IsDevelopment() {
		docsFile = "./docs/swagger.json"
	}

	app := httpRouter.NewApp(cfg.App.Name)
	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		HealthUC:   healthUC,
		Metrics:    m,
		Log:        log,
		Service: httpRouter.ServiceInfo{
			Name:        cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Env,
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		StoreTimeout:   cfg.DB.Timeout,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		DocsFile:       docsFile,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openCache REDIS_URL=memory:// usa la caché en proceso. Un Redis caído al arrancar
// no impide levantar el servicio: las lecturas irán al store hasta que responda.
func openCache(ctx context.Context, cfg *config.Config, log *logger.Logger) ports.Cache {
	if strings.HasPrefix(cfg.Redis.URL, "memory://") {
		log.Warn().Msg("usando caché en memoria del proceso")
		return memcache.New()
	}
	rc, err := rediscache.New(rediscache.Config{
		URL:         cfg.Redis.URL,
		Password:    cfg.Redis.Password,
		PoolSize:    cfg.Redis.MaxConnections,
		DialTimeout: cfg.Cache.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de Redis")
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Cache.Timeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("Redis no responde; se continúa sin caché efectiva")
	}
	return rc
}
