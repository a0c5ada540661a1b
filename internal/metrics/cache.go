package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache collects the counters, histogram, and gauge the server's dispatch
// loop and cache drive: per-opcode counts and latency, cache hit/miss,
// eviction count, and current cache size.
type Cache struct {
	ops       *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

// NewCache wires a Cache collector onto reg.
func NewCache(reg *Registry) *Cache {
	return &Cache{
		ops:       reg.NewCounterVec("ops_total", "Total dispatched operations by opcode name.", []string{"op"}),
		duration:  reg.NewHistogramVec("op_duration_seconds", "Dispatch latency by opcode name.", []string{"op"}, nil),
		hits:      reg.NewCounter("cache_hits_total", "Cache hits on GET."),
		misses:    reg.NewCounter("cache_misses_total", "Cache misses on GET."),
		evictions: reg.NewCounter("evictions_total", "Entries evicted to make room for a new SET."),
		size:      reg.NewGauge("cache_size", "Current number of entries held in the cache."),
	}
}

// ObserveOp records one dispatched operation of the given opcode name,
// along with the duration it took to handle it.
func (c *Cache) ObserveOp(op string, d time.Duration) {
	c.ops.WithLabelValues(op).Inc()
	c.duration.WithLabelValues(op).Observe(d.Seconds())
}

// Hit records a cache hit on GET.
func (c *Cache) Hit() { c.hits.Inc() }

// Miss records a cache miss on GET (the key is then looked up in storage).
func (c *Cache) Miss() { c.misses.Inc() }

// Eviction records one entry evicted to make room for a SET.
func (c *Cache) Eviction() { c.evictions.Inc() }

// SetSize reports the cache's current entry count.
func (c *Cache) SetSize(n int) { c.size.Set(float64(n)) }
