package cache

import (
	"context"
	"time"

	"github.com/jhoicas/catalog-service/internal/application/ports"
	"github.com/jhoicas/catalog-service/pkg/logger"
)

// Invalidator borra las claves afectadas por una escritura ya confirmada en el store.
// Se invoca solo cuando la escritura retornó sin error. Sus fallos se registran y no se
// propagan: la respuesta al cliente no depende de la caché.
type Invalidator struct {
	cache    ports.Cache
	recorder ports.CacheRecorder
	log      *logger.Logger
	timeout  time.Duration
}

// NewInvalidator crea el coordinador. timeout acota cada llamada completa.
func NewInvalidator(c ports.Cache, recorder ports.CacheRecorder, log *logger.Logger, timeout time.Duration) *Invalidator {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Invalidator{cache: c, recorder: recorder, log: log.Named("cache-invalidator"), timeout: timeout}
}

// ProductCreated un alta cambia conteos y páginas de cualquier listado.
func (i *Invalidator) ProductCreated(ctx context.Context) {
	i.run(ctx, nil, ProductsPattern)
}

// ProductChanged actualización, borrado o ajuste de stock de un producto.
func (i *Invalidator) ProductChanged(ctx context.Context, id string) {
	i.run(ctx, []string{ProductKey(id)}, ProductsPattern)
}

// CategoryCreated invalida listados y árbol de categorías.
func (i *Invalidator) CategoryCreated(ctx context.Context) {
	i.run(ctx, nil, CategoriesPattern)
}

// CategoryChanged invalida cada categoría indicada más listados y árbol, y el detalle
// de los productos, que embebe su categoría. En un borrado forzado ids incluye los
// hijos que quedaron sin padre.
func (i *Invalidator) CategoryChanged(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, CategoryKey(id))
	}
	i.run(ctx, keys, CategoriesPattern, ProductDetailsPattern)
}

func (i *Invalidator) run(ctx context.Context, keys []string, patterns ...string) {
	// La petición puede cancelarse justo después del commit; la invalidación debe completarse igual.
	ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.timeout)
	defer cancel()

	for _, k := range keys {
		if err := i.cache.Delete(ictx, k); err != nil {
			i.recorder.CacheError("delete")
			i.log.Error().Err(err).Str("key", k).Msg("no se pudo invalidar la clave")
		}
	}
	for _, pattern := range patterns {
		n, err := i.cache.DeletePattern(ictx, pattern)
		if err != nil {
			i.recorder.CacheError("delete_pattern")
			i.log.Error().Err(err).Str("pattern", pattern).Msg("no se pudo invalidar el patrón")
			continue
		}
		i.log.Debug().Strs("keys", keys).Str("pattern", pattern).Int64("removed", n).Msg("caché invalidada")
	}
}
