// Package rediscache implementa ports.Cache sobre Redis (go-redis v9).
package rediscache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/catalog-service/internal/application/ports"
)

// scanCount tamaño de lote sugerido a SCAN.
const scanCount = 100

// Config conexión a Redis.
type Config struct {
	URL         string // redis://[:password@]host:port/db
	Password    string // sobrescribe el de la URL si no está vacío
	PoolSize    int
	DialTimeout time.Duration
}

// Cache adaptador de ports.Cache.
type Cache struct {
	client *redis.Client
}

var _ ports.Cache = (*Cache)(nil)

// New abre el cliente a partir de la URL. No hace ping; usar Ping para verificar.
func New(cfg Config) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	return &Cache{client: redis.NewClient(opts)}, nil
}

// NewFromClient envuelve un cliente existente.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeletePattern recorre el keyspace con SCAN y borra lo encontrado en un único DEL.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return 0, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return c.client.Del(ctx, keys...).Result()
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TTL normaliza los centinelas de go-redis (-2 y -1 sin unidad) a segundos.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	switch d {
	case -2:
		return -2 * time.Second, nil
	case -1:
		return -1 * time.Second, nil
	}
	return d, nil
}

func (c *Cache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	return c.client.IncrBy(ctx, key, delta).Result()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Stats lee INFO y extrae las métricas expuestas en health y /metrics.
func (c *Cache) Stats(ctx context.Context) (*ports.CacheStats, error) {
	info, err := c.client.Info(ctx).Result()
	if err != nil {
		return nil, err
	}
	return parseInfo(info), nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func parseInfo(info string) *ports.CacheStats {
	fields := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[k] = v
	}
	num := func(k string) int64 {
		n, _ := strconv.ParseInt(fields[k], 10, 64)
		return n
	}
	return &ports.CacheStats{
		KeyspaceHits:     num("keyspace_hits"),
		KeyspaceMisses:   num("keyspace_misses"),
		UsedMemory:       num("used_memory"),
		UsedMemoryHuman:  fields["used_memory_human"],
		ConnectedClients: num("connected_clients"),
		TotalCommands:    num("total_commands_processed"),
		UptimeInSeconds:  num("uptime_in_seconds"),
	}
}
