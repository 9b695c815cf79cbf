package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	// This provides better granularity for monitoring Calendly lookups and CRM forwards
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Calendly API Client Metrics
	CalendlyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendly_client_operation_duration_seconds",
			Help:    "Calendly client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	CalendlyRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendly_client_operation_total",
			Help: "Total number of Calendly client operations",
		},
		[]string{"operation", "status"},
	)

	// CRM Forward Metrics
	CRMForwardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_forward_duration_seconds",
			Help:    "Lead forward duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	CRMForwardTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_forward_total",
			Help: "Total number of lead forwards to the CRM",
		},
		[]string{"status"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbridge_webhooks_received_total",
			Help: "Total webhook deliveries by outcome",
		},
		[]string{"outcome"}, // forwarded, ignored, incomplete, invalid, unauthorized, forward_failed
	)

	SegmentResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbridge_segment_resolutions_total",
			Help: "Total segment resolutions by strategy",
		},
		[]string{"strategy"}, // exact, keyword, default
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
