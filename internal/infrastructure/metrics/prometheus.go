// Package metrics registra los colectores Prometheus del servicio.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/catalog-service/internal/application/ports"
)

// Buckets de latencia HTTP en segundos.
var defaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics agrupa el registro y los colectores del catálogo.
type Metrics struct {
	registry *prometheus.Registry

	// Caché
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheErrors *prometheus.CounterVec

	// HTTP
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

var _ ports.CacheRecorder = (*Metrics)(nil)

// New crea un registro propio (no el global) con colectores de Go y de proceso.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,

		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Lecturas servidas desde la caché",
			},
			[]string{"view"},
		),

		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Lecturas que tuvieron que ir al store",
			},
			[]string{"view"},
		),

		cacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Operaciones de caché fallidas (absorbidas)",
			},
			[]string{"op"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Peticiones HTTP atendidas",
			},
			[]string{"method", "path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duración de las peticiones HTTP",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Respuestas HTTP con status >= 400",
			},
			[]string{"method", "path", "status"},
		),
	}

	registry.MustRegister(
		m.cacheHits, m.cacheMisses, m.cacheErrors,
		m.requestsTotal, m.requestDuration, m.requestErrors,
	)
	return m
}

func (m *Metrics) CacheHit(view string)  { m.cacheHits.WithLabelValues(view).Inc() }
func (m *Metrics) CacheMiss(view string) { m.cacheMisses.WithLabelValues(view).Inc() }
func (m *Metrics) CacheError(op string)  { m.cacheErrors.WithLabelValues(op).Inc() }

// ObserveRequest registra una petición ya respondida. path debe ser la plantilla de ruta.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, path, code).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	if status >= 400 {
		m.requestErrors.WithLabelValues(method, path, code).Inc()
	}
}

// RegisterCacheStats expone INFO del servidor de caché como gauges leídos en cada scrape.
func (m *Metrics) RegisterCacheStats(namespace string, c ports.Cache, timeout time.Duration) {
	m.registry.MustRegister(newCacheStatsCollector(namespace, c, timeout))
}

// Handler exposición en formato texto de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry para tests y colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type cacheStatsCollector struct {
	cache   ports.Cache
	timeout time.Duration

	up         *prometheus.Desc
	hits       *prometheus.Desc
	misses     *prometheus.Desc
	hitRate    *prometheus.Desc
	usedMemory *prometheus.Desc
	clients    *prometheus.Desc
	commands   *prometheus.Desc
	uptime     *prometheus.Desc
}

func newCacheStatsCollector(namespace string, c ports.Cache, timeout time.Duration) *cacheStatsCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache_server", name), help, nil, nil)
	}
	return &cacheStatsCollector{
		cache:      c,
		timeout:    timeout,
		up:         desc("up", "1 si el servidor de caché respondió"),
		hits:       desc("keyspace_hits", "keyspace_hits reportado por el servidor"),
		misses:     desc("keyspace_misses", "keyspace_misses reportado por el servidor"),
		hitRate:    desc("hit_rate", "hits / (hits + misses)"),
		usedMemory: desc("used_memory_bytes", "Memoria usada por el servidor"),
		clients:    desc("connected_clients", "Clientes conectados"),
		commands:   desc("commands_processed", "Comandos procesados"),
		uptime:     desc("uptime_seconds", "Uptime del servidor"),
	}
}

func (c *cacheStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.up, c.hits, c.misses, c.hitRate, c.usedMemory, c.clients, c.commands, c.uptime} {
		ch <- d
	}
}

func (c *cacheStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	s, err := c.cache.Stats(ctx)
	if err != nil {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.KeyspaceHits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.KeyspaceMisses))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, s.HitRate())
	ch <- prometheus.MustNewConstMetric(c.usedMemory, prometheus.GaugeValue, float64(s.UsedMemory))
	ch <- prometheus.MustNewConstMetric(c.clients, prometheus.GaugeValue, float64(s.ConnectedClients))
	ch <- prometheus.MustNewConstMetric(c.commands, prometheus.CounterValue, float64(s.TotalCommands))
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, float64(s.UptimeInSeconds))
}
