package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss se retorna cuando la clave no existe o ya expiró.
var ErrCacheMiss = errors.New("cache: clave no encontrada")

// Cache define el puerto de salida hacia el almacén clave-valor (Redis en producción).
// Los valores son bytes; la serialización JSON la hace el llamador.
// Todas las operaciones deben ser seguras para uso concurrente.
type Cache interface {
	// Get retorna ErrCacheMiss si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set guarda el valor con TTL. TTL cero = sin expiración.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete no falla si la clave no existe.
	Delete(ctx context.Context, key string) error
	// DeletePattern elimina todas las claves que casan con el glob y retorna cuántas borró.
	DeletePattern(ctx context.Context, pattern string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	// TTL retorna -2s si la clave no existe y -1s si no tiene expiración (semántica de Redis).
	TTL(ctx context.Context, key string) (time.Duration, error)
	Increment(ctx context.Context, key string, delta int64) (int64, error)
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (*CacheStats, error)
	Close() error
}

// CacheStats estadísticas del servidor de caché (subconjunto de INFO).
type CacheStats struct {
	KeyspaceHits     int64  `json:"keyspace_hits"`
	KeyspaceMisses   int64  `json:"keyspace_misses"`
	UsedMemory       int64  `json:"used_memory"`
	UsedMemoryHuman  string `json:"used_memory_human"`
	ConnectedClients int64  `json:"connected_clients"`
	TotalCommands    int64  `json:"total_commands_processed"`
	UptimeInSeconds  int64  `json:"uptime_in_seconds"`
}

// HitRate fracción de aciertos del servidor; 0 si no hay lecturas.
func (s *CacheStats) HitRate() float64 {
	total := s.KeyspaceHits + s.KeyspaceMisses
	if total == 0 {
		return 0
	}
	return float64(s.KeyspaceHits) / float64(total)
}

// CacheRecorder recibe eventos de lectura de caché (implementado por el adaptador de métricas).
type CacheRecorder interface {
	CacheHit(view string)
	CacheMiss(view string)
	CacheError(op string)
}

// NopRecorder descarta los eventos.
type NopRecorder struct{}

func (NopRecorder) CacheHit(string)   {}
func (NopRecorder) CacheMiss(string)  {}
func (NopRecorder) CacheError(string) {}
