package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// HTTP Request Metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Store Metrics
	storeOperationDuration *prometheus.HistogramVec
	storeErrorsTotal       *prometheus.CounterVec

	// Call Metrics
	callsStartedTotal          prometheus.Counter
	callsEndedTotal            *prometheus.CounterVec
	callParticipantsJoinTotal  prometheus.Counter
	callParticipantsLeaveTotal prometheus.Counter
	callOperationErrorsTotal   *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics and registers them with a fresh registry
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		registry: reg,

		// HTTP Request Metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: labels,
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency in seconds",
				ConstLabels: labels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name:        "http_requests_in_flight",
				Help:        "Number of HTTP requests currently being processed",
				ConstLabels: labels,
			},
		),

		// Store Metrics
		storeOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "store_operation_duration_seconds",
				Help:        "Keyed store operation latency in seconds",
				ConstLabels: labels,
				Buckets:     []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation"},
		),
		storeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "store_errors_total",
				Help:        "Total number of keyed store errors",
				ConstLabels: labels,
			},
			[]string{"operation"},
		),

		// Call Metrics
		callsStartedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name:        "calls_started_total",
				Help:        "Total number of team calls started",
				ConstLabels: labels,
			},
		),
		callsEndedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "calls_ended_total",
				Help:        "Total number of team calls ended",
				ConstLabels: labels,
			},
			[]string{"reason"}, // host_ended, host_left, empty, replaced
		),
		callParticipantsJoinTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name:        "call_participants_joined_total",
				Help:        "Total number of participants that joined a call",
				ConstLabels: labels,
			},
		),
		callParticipantsLeaveTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name:        "call_participants_left_total",
				Help:        "Total number of participants that left a call",
				ConstLabels: labels,
			},
		),
		callOperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "call_operation_errors_total",
				Help:        "Total number of failed call operations",
				ConstLabels: labels,
			},
			[]string{"operation", "code"},
		),
	}
}

// GetRegistry returns the registry holding all metrics
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.httpRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.httpRequestsInFlight.Dec()
}

// RecordStoreOperation records a keyed store operation
func (m *Metrics) RecordStoreOperation(operation string, duration time.Duration, err error) {
	m.storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.storeErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordCallStarted records a new call
func (m *Metrics) RecordCallStarted() {
	m.callsStartedTotal.Inc()
}

// RecordCallEnded records a destroyed call record
func (m *Metrics) RecordCallEnded(reason string) {
	m.callsEndedTotal.WithLabelValues(reason).Inc()
}

// RecordParticipantJoined records a participant joining
func (m *Metrics) RecordParticipantJoined() {
	m.callParticipantsJoinTotal.Inc()
}

// RecordParticipantLeft records a participant leaving
func (m *Metrics) RecordParticipantLeft() {
	m.callParticipantsLeaveTotal.Inc()
}

// RecordCallOperationError records a failed call operation
func (m *Metrics) RecordCallOperationError(operation, code string) {
	m.callOperationErrorsTotal.WithLabelValues(operation, code).Inc()
}
