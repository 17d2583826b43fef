package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/catalog-service/internal/application/ports"
	"github.com/jhoicas/catalog-service/pkg/logger"
)

// AccessorConfig límites del acceso read-through.
type AccessorConfig struct {
	Timeout      time.Duration // límite de cada Get/Set contra la caché
	SingleFlight bool          // deduplicar misses concurrentes de la misma clave
	FetchTimeout time.Duration // límite del fetch compartido por un vuelo
}

// Accessor consulta la caché antes del store y la repuebla tras un miss.
// Los fallos de caché nunca llegan al llamador.
type Accessor struct {
	cache    ports.Cache
	recorder ports.CacheRecorder
	log      *logger.Logger
	timeout  time.Duration
	flights  *singleflight.Group
	fetchTTL time.Duration
}

// NewAccessor crea el accessor. recorder puede ser nil.
func NewAccessor(c ports.Cache, recorder ports.CacheRecorder, log *logger.Logger, cfg AccessorConfig) *Accessor {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 500 * time.Millisecond
	}
	a := &Accessor{
		cache:    c,
		recorder: recorder,
		log:      log.Named("cache"),
		timeout:  cfg.Timeout,
	}
	if cfg.SingleFlight {
		a.flights = &singleflight.Group{}
		a.fetchTTL = cfg.FetchTimeout
		if a.fetchTTL <= 0 {
			a.fetchTTL = 5 * time.Second
		}
	}
	return a
}

// ReadThrough retorna el valor cacheado en key o, si no está (o la caché falla),
// ejecuta fetch y guarda el resultado con ttl. Los errores de fetch se propagan
// y nada se cachea en ese caso.
func ReadThrough[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	view := viewOf(key)

	if v, ok := lookup[T](ctx, a, key); ok {
		a.recorder.CacheHit(view)
		return v, nil
	}
	a.recorder.CacheMiss(view)

	if a.flights == nil {
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		a.populate(ctx, key, v, ttl)
		return v, nil
	}

	// El fetch compartido no hereda la cancelación de quien abrió el vuelo:
	// cada llamador espera con su propio contexto.
	ch := a.flights.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.fetchTTL)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		a.populate(fctx, key, v, ttl)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func lookup[T any](ctx context.Context, a *Accessor, key string) (T, bool) {
	var zero T
	getCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.cache.Get(getCtx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			a.recorder.CacheError("get")
			a.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida, se consulta el store")
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		a.recorder.CacheError("decode")
		a.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta, se ignora")
		return zero, false
	}
	return v, true
}

func (a *Accessor) populate(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		a.recorder.CacheError("encode")
		a.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar el valor para caché")
		return
	}
	if bytes.Equal(raw, []byte("null")) {
		return
	}
	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()
	if err := a.cache.Set(setCtx, key, raw, ttl); err != nil {
		a.recorder.CacheError("set")
		a.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}

// viewOf etiqueta de métricas: "product", "products", "category", "categories".
func viewOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
