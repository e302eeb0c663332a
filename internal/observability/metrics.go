package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the console's Prometheus metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	apiCalls        *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	reloadDuration  prometheus.Histogram
	reloadFailures  *prometheus.CounterVec
	stockAlerts     prometheus.Gauge
}

// NewMetrics initialises the registry and every console metric.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_http_requests_total",
		Help: "HTTP requests served by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_http_request_duration_seconds",
		Help:    "HTTP request latency per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	apiCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_api_requests_total",
		Help: "Calls to the inventory API by resource, method and outcome.",
	}, []string{"resource", "method", "outcome"})
	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_api_request_duration_seconds",
		Help:    "Inventory API latency by resource and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})
	reloadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_reload_duration_seconds",
		Help:    "Time taken to refetch every collection.",
		Buckets: prometheus.DefBuckets,
	})
	reloadFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reload_failures_total",
		Help: "Collections degraded to empty during a reload.",
	}, []string{"collection"})
	stockAlerts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_stock_alerts",
		Help: "Stock records at or below their minimum in the current snapshot.",
	})
	registry.MustRegister(requests, duration, apiCalls, apiDuration, reloadDuration, reloadFailures, stockAlerts)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		apiCalls:        apiCalls,
		apiDuration:     apiDuration,
		reloadDuration:  reloadDuration,
		reloadFailures:  reloadFailures,
		stockAlerts:     stockAlerts,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveAPICall records one inventory API round trip.
func (m *Metrics) ObserveAPICall(resource, method string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.apiCalls.WithLabelValues(resource, method, outcome).Inc()
	m.apiDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// ObserveReload records a completed reload and the alert count it produced.
func (m *Metrics) ObserveReload(elapsed time.Duration, failed []string, alerts int) {
	if m == nil {
		return
	}
	m.reloadDuration.Observe(elapsed.Seconds())
	for _, name := range failed {
		m.reloadFailures.WithLabelValues(name).Inc()
	}
	m.stockAlerts.Set(float64(alerts))
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
