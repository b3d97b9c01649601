package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. Each instance owns
// its registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	service  string

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	bookings        *prometheus.CounterVec
}

// NewMetrics initializes and registers collectors labelled with the service name.
func NewMetrics(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		service:  serviceName,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_errors_total",
			Help:        "Total number of error responses by error code",
			ConstLabels: constLabels,
		}, []string{"method", "path", "code"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking lifecycle transitions by resulting status",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.errors,
		m.bookings,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.requests.WithLabelValues(method, path, statusStr).Inc()
	m.requestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordBookingTransition counts a booking entering status.
func (m *Metrics) RecordBookingTransition(status string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(status).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// PoolStats is a snapshot of connection pool usage.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
	Max      int32
}

// ObservePool exports gauges for a connection pool under db_pool_*{pool=name}.
// stats is called on every scrape.
func (m *Metrics) ObservePool(name string, stats func() PoolStats) {
	if m == nil || stats == nil {
		return
	}
	labels := prometheus.Labels{"service": m.service, "pool": name}
	gauge := func(metric, help string, pick func(PoolStats) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return float64(pick(stats())) })
	}
	m.registry.MustRegister(
		gauge("db_pool_acquired_connections", "Connections currently in use", func(s PoolStats) int32 { return s.Acquired }),
		gauge("db_pool_idle_connections", "Idle connections", func(s PoolStats) int32 { return s.Idle }),
		gauge("db_pool_total_connections", "Open connections", func(s PoolStats) int32 { return s.Total }),
		gauge("db_pool_max_connections", "Configured connection limit", func(s PoolStats) int32 { return s.Max }),
	)
}
