// Package memcache implementa ports.Cache en memoria del proceso.
// Se usa con REDIS_URL=memory:// (desarrollo sin Redis) y en tests.
package memcache

import (
	"context"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/jhoicas/catalog-service/internal/application/ports"
)

// Cache mapa protegido por mutex con expiración perezosa.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	started time.Time
	hits    int64
	misses  int64
	cmds    int64
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// New crea una caché vacía.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry), started: time.Now()}
}

var _ ports.Cache = (*Cache)(nil)

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	e, ok := c.live(key)
	if !ok {
		c.misses++
		return nil, ports.ErrCacheMiss
	}
	c.hits++
	cp := make([]byte, len(e.value))
	copy(cp, e.value)
	return cp, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	c.entries[key] = &entry{value: cp, expiresAt: expiresAt}
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	delete(c.entries, key)
	return nil
}

// DeletePattern usa la sintaxis glob de path.Match, equivalente a la de Redis para '*' y '?'.
func (c *Cache) DeletePattern(_ context.Context, pattern string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	var n int64
	for k := range c.entries {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return n, err
		}
		if ok {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	_, ok := c.live(key)
	return ok, nil
}

func (c *Cache) TTL(_ context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	e, ok := c.live(key)
	switch {
	case !ok:
		return -2 * time.Second, nil
	case e.expiresAt.IsZero():
		return -1 * time.Second, nil
	default:
		return time.Until(e.expiresAt).Truncate(time.Second), nil
	}
}

func (c *Cache) Increment(_ context.Context, key string, delta int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds++
	var cur int64
	e, ok := c.live(key)
	if ok {
		v, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, err
		}
		cur = v
	} else {
		e = &entry{}
		c.entries[key] = e
	}
	cur += delta
	e.value = []byte(strconv.FormatInt(cur, 10))
	return cur, nil
}

func (c *Cache) Ping(context.Context) error { return nil }

func (c *Cache) Stats(context.Context) (*ports.CacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var used int64
	for k, e := range c.entries {
		used += int64(len(k) + len(e.value))
	}
	return &ports.CacheStats{
		KeyspaceHits:     c.hits,
		KeyspaceMisses:   c.misses,
		UsedMemory:       used,
		UsedMemoryHuman:  strconv.FormatInt(used, 10) + "B",
		ConnectedClients: 1,
		TotalCommands:    c.cmds,
		UptimeInSeconds:  int64(time.Since(c.started).Seconds()),
	}, nil
}

func (c *Cache) Close() error { return nil }

// Len número de entradas vivas (tests).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if _, ok := c.live(k); ok {
			n++
		}
	}
	return n
}

// live requiere c.mu tomado en escritura; borra la entrada si expiró.
func (c *Cache) live(key string) (*entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e, true
}
