// Package metrics exposes Prometheus metrics for the dashboard backend.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "monti_dashboard"

// Metrics holds all application metrics on a private registry.
// Every Record method is a no-op on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	serviceOps      *prometheus.CounterVec
	serviceDuration *prometheus.HistogramVec
	records         *prometheus.GaugeVec

	wsConnections prometheus.Gauge
	wsMessages    prometheus.Counter
	wsErrors      prometheus.Counter

	snapshots    prometheus.Counter
	httpRequests *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a metrics set on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		serviceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_operations_total",
			Help:      "Entity service operations by entity, operation and outcome",
		}, []string{"entity", "operation", "outcome"}),
		serviceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "service_operation_duration_seconds",
			Help:      "Entity service operation duration including simulated latency",
			Buckets:   []float64{.01, .05, .1, .2, .3, .4, .5, .75, 1},
		}, []string{"entity", "operation"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_records",
			Help:      "Records currently held per entity collection",
		}, []string{"entity"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_active_connections",
			Help:      "Live dashboard clients currently connected",
		}),
		wsMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_total",
			Help:      "Messages broadcast to live dashboard clients",
		}),
		wsErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "Clients dropped because their send buffer was full",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Dashboard snapshots broadcast by the ticker",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		m.serviceOps,
		m.serviceDuration,
		m.records,
		m.wsConnections,
		m.wsMessages,
		m.wsErrors,
		m.snapshots,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordServiceOp records one entity service call
func (m *Metrics) RecordServiceOp(kind types.Kind, op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.serviceOps.WithLabelValues(string(kind), op, outcome).Inc()
	m.serviceDuration.WithLabelValues(string(kind), op).Observe(duration.Seconds())
}

// SetRecordCount sets the current size of an entity collection
func (m *Metrics) SetRecordCount(kind types.Kind, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(string(kind)).Set(float64(n))
}

// RecordWebSocketConnect increments the active connection gauge
func (m *Metrics) RecordWebSocketConnect() {
	if m == nil {
		return
	}
	m.wsConnections.Inc()
}

// RecordWebSocketDisconnect decrements the active connection gauge
func (m *Metrics) RecordWebSocketDisconnect() {
	if m == nil {
		return
	}
	m.wsConnections.Dec()
}

// RecordWebSocketMessage counts one broadcast
func (m *Metrics) RecordWebSocketMessage() {
	if m == nil {
		return
	}
	m.wsMessages.Inc()
}

// RecordWebSocketError counts one dropped client
func (m *Metrics) RecordWebSocketError() {
	if m == nil {
		return
	}
	m.wsErrors.Inc()
}

// RecordSnapshot counts one ticker broadcast
func (m *Metrics) RecordSnapshot() {
	if m == nil {
		return
	}
	m.snapshots.Inc()
}

// RecordHTTPRequest counts one HTTP request
func (m *Metrics) RecordHTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
