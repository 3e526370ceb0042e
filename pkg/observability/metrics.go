package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/commands/bus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Command and query bus
	BusEvents   *prometheus.CounterVec
	BusDuration *prometheus.HistogramVec

	// Backend calls made by the conversation and session services
	BackendCalls *prometheus.CounterVec
	BreakerState *prometheus.GaugeVec

	// Store mutations
	EntitiesCreated *prometheus.CounterVec
	EntitiesDeleted *prometheus.CounterVec

	// Realtime fan-out
	WSClients prometheus.Gauge
}

// NewCollector creates a collector with its own registry under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BusEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_events_total",
			Help:      "Command and query dispatches, split by event and message type",
		}, []string{"event", "type"}),
		BusDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_duration_seconds",
			Help:      "Command and query handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"metric", "type"}),
		BackendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_calls_total",
			Help:      "Calls to the remote backend",
		}, []string{"operation", "status"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),
		EntitiesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Entities created in the store",
		}, []string{"kind"}),
		EntitiesDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_deleted_total",
			Help:      "Entities deleted from the store, cascades included",
		}, []string{"kind"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected websocket clients",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.BusEvents,
		c.BusDuration,
		c.BackendCalls,
		c.BreakerState,
		c.EntitiesCreated,
		c.EntitiesDeleted,
		c.WSClients,
	)
	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Increment implements bus.Metrics
func (c *Collector) Increment(metric, label string) {
	c.BusEvents.WithLabelValues(metric, label).Inc()
}

// StartTimer implements bus.Metrics
func (c *Collector) StartTimer(metric, label string) bus.Timer {
	observer := c.BusDuration.WithLabelValues(metric, label)
	return bus.Since(func(d time.Duration) { observer.Observe(d.Seconds()) })
}

// RecordBackendCall counts one backend call by outcome
func (c *Collector) RecordBackendCall(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.BackendCalls.WithLabelValues(operation, status).Inc()
}

// SetBreakerState records a circuit breaker transition
func (c *Collector) SetBreakerState(name string, state int) {
	c.BreakerState.WithLabelValues(name).Set(float64(state))
}

// HTTPMiddleware records request counts and latency keyed by chi route pattern
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// EntityCreated counts one created record of kind
func (c *Collector) EntityCreated(kind string) {
	c.EntitiesCreated.WithLabelValues(kind).Inc()
}

// EntityDeleted counts n deleted records of kind
func (c *Collector) EntityDeleted(kind string, n int) {
	c.EntitiesDeleted.WithLabelValues(kind).Add(float64(n))
}

// SetWSClients reports the number of connected websocket clients
func (c *Collector) SetWSClients(n int) {
	c.WSClients.Set(float64(n))
}
