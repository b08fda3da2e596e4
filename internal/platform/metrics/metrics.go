package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	InventoryCacheHits   prometheus.Counter
	InventoryCacheMisses prometheus.Counter
	CacheLookupDuration  prometheus.Histogram
	ItemsCreated         prometheus.Counter
	OrdersCreated        prometheus.Counter
	OrdersRejected       prometheus.Counter
	HTTPLatency          *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		InventoryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "logitrack_inventory_cache_hits_total",
			Help: "Total cache hits on the inventory listing",
		}),
		InventoryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "logitrack_inventory_cache_misses_total",
			Help: "Total cache misses on the inventory listing",
		}),
		CacheLookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "logitrack_inventory_cache_lookup_seconds",
			Help:    "Latency of inventory listing lookups, hits and misses",
			Buckets: prometheus.DefBuckets,
		}),
		ItemsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "logitrack_inventory_items_created_total",
			Help: "Total inventory items created",
		}),
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "logitrack_orders_created_total",
			Help: "Total orders persisted",
		}),
		OrdersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "logitrack_orders_rejected_total",
			Help: "Total order requests rejected by validation",
		}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logitrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// RecordCacheHit updates the hit counter and lookup histogram together.
func (m *Metrics) RecordCacheHit(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InventoryCacheHits.Inc()
	m.CacheLookupDuration.Observe(elapsed.Seconds())
}

// RecordCacheMiss updates the miss counter and lookup histogram together.
func (m *Metrics) RecordCacheMiss(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InventoryCacheMisses.Inc()
	m.CacheLookupDuration.Observe(elapsed.Seconds())
}
