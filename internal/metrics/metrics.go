// Package metrics exposes facade and transport counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/dataadapter/internal/backend"
)

const namespace = "dataadapter"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	requests     *prometheus.CounterVec
	reqDuration  *prometheus.HistogramVec
	probeUp      *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facade_calls_total",
			Help:      "Facade calls by entity, operation, backend and envelope code.",
		}, []string{"entity", "operation", "backend", "code"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "facade_call_duration_seconds",
			Help:      "Facade call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "operation", "backend"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lowcode_requests_total",
			Help:      "Requests sent to the low-code platform by method, route and HTTP status (0 on network failure).",
		}, []string{"method", "route", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lowcode_request_duration_seconds",
			Help:      "Low-code platform request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		probeUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_up",
			Help:      "1 when the last diagnostics probe of the backend succeeded.",
		}, []string{"backend"}),
	}
	m.registry.MustRegister(
		m.calls, m.callDuration, m.requests, m.reqDuration, m.probeUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCall records a facade call.
func (m *Metrics) ObserveCall(entity, operation string, kind backend.Kind, code int, elapsed time.Duration) {
	m.calls.WithLabelValues(entity, operation, string(kind), strconv.Itoa(code)).Inc()
	m.callDuration.WithLabelValues(entity, operation, string(kind)).Observe(elapsed.Seconds())
}

// ObserveRequest records a platform request.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	route := Route(endpoint)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveProbe records a diagnostics probe outcome.
func (m *Metrics) ObserveProbe(kind backend.Kind, ok bool) {
	v := 0.0
	if ok {
		v = 1
	}
	m.probeUp.WithLabelValues(string(kind)).Set(v)
}

// routes whose last segment is a record id
var idRoutes = []string{"/queryById/", "/edit/", "/delete/", "/deleteFile/"}

// Route strips record ids from an endpoint so it can be used as a label.
func Route(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	for _, marker := range idRoutes {
		if i := strings.Index(endpoint, marker); i >= 0 {
			return endpoint[:i+len(marker)] + ":id"
		}
	}
	return endpoint
}
