package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"worklog/internal/domain/apperr"
)

const namespace = "worklog"

// Collector holds the service's Prometheus instruments. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	storeDuration   *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	exports         *prometheus.CounterVec
	throttled       *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route", "status"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_in_flight_requests",
				Help:      "Requests currently being served.",
			},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Record store latency by backend and logical operation.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"backend", "op", "status"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Record store errors by backend, operation and class.",
			},
			[]string{"backend", "op", "class"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Generated CSV and PDF exports.",
			},
			[]string{"kind"},
		),
		throttled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by a rate limit rule.",
			},
			[]string{"rule"},
		),
	}
	reg.MustRegister(
		c.requestsTotal, c.requestDuration, c.inFlight,
		c.storeDuration, c.storeErrors, c.exports, c.throttled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) RequestStarted() {
	if c == nil {
		return
	}
	c.inFlight.Inc()
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.inFlight.Dec()
	code := strconv.Itoa(status)
	c.requestsTotal.WithLabelValues(method, route, code).Inc()
	c.requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// ObserveStore records one logical store operation started at start.
func (c *Collector) ObserveStore(backend, op string, start time.Time, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		status = "error"
		c.storeErrors.WithLabelValues(backend, op, errorClass(err)).Inc()
	}
	c.storeDuration.WithLabelValues(backend, op, status).Observe(time.Since(start).Seconds())
}

func (c *Collector) Export(kind string) {
	if c == nil {
		return
	}
	c.exports.WithLabelValues(kind).Inc()
}

func (c *Collector) Throttled(rule string) {
	if c == nil {
		return
	}
	c.throttled.WithLabelValues(rule).Inc()
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, apperr.ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, apperr.ErrPermissionDenied):
		return "permission"
	case errors.Is(err, apperr.ErrTransient):
		return "transient"
	default:
		return "other"
	}
}
