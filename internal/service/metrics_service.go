package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/training-registration-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	registrationsCreated *prometheus.CounterVec
	statusUpdates        *prometheus.CounterVec
	gateAttempts         *prometheus.CounterVec
	feedBroadcasts       prometheus.Counter
	feedClients          prometheus.Gauge
	storageDuration      *prometheus.HistogramVec

	requestCount         uint64
	requestDurationTotal uint64
	createdCount         uint64
	statusCount          uint64
	gateCount            uint64
	gateFailureCount     uint64
	broadcastCount       uint64
	storageCount         uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registrationsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_created_total",
		Help: "Training registrations stored, by department",
	}, []string{"department"})

	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_status_updates_total",
		Help: "Approval status changes, by new status",
	}, []string{"status"})

	gateAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_gate_attempts_total",
		Help: "HR gate password attempts, by result",
	}, []string{"result"})

	feedBroadcasts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_feed_broadcasts_total",
		Help: "Snapshots pushed to dashboard websocket clients",
	})

	feedClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_feed_clients",
		Help: "Connected dashboard websocket clients",
	})

	storageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storage_operation_duration_seconds",
		Help:    "Duration of blob store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, registrationsCreated, statusUpdates, gateAttempts, feedBroadcasts, feedClients, storageDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:             registry,
		handler:              handler,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		registrationsCreated: registrationsCreated,
		statusUpdates:        statusUpdates,
		gateAttempts:         gateAttempts,
		feedBroadcasts:       feedBroadcasts,
		feedClients:          feedClients,
		storageDuration:      storageDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordRegistrationCreated counts a stored registration.
func (m *MetricsService) RecordRegistrationCreated(department string) {
	if m == nil {
		return
	}
	m.registrationsCreated.WithLabelValues(department).Inc()
	atomic.AddUint64(&m.createdCount, 1)
}

// RecordStatusUpdate counts an approval status change.
func (m *MetricsService) RecordStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(status).Inc()
	atomic.AddUint64(&m.statusCount, 1)
}

// RecordGateAttempt counts an HR gate password check.
func (m *MetricsService) RecordGateAttempt(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
		atomic.AddUint64(&m.gateFailureCount, 1)
	}
	m.gateAttempts.WithLabelValues(result).Inc()
	atomic.AddUint64(&m.gateCount, 1)
}

// RecordFeedBroadcast counts a snapshot pushed to the given number of clients.
func (m *MetricsService) RecordFeedBroadcast(clients int) {
	if m == nil {
		return
	}
	m.feedBroadcasts.Inc()
	m.feedClients.Set(float64(clients))
	atomic.AddUint64(&m.broadcastCount, 1)
}

// ObserveStorage records blob store timing.
func (m *MetricsService) ObserveStorage(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storageDuration.WithLabelValues(operation).Observe(duration.Seconds())
	atomic.AddUint64(&m.storageCount, 1)
}

// Snapshot returns aggregated metrics suitable for the system endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		RegistrationsCreated:     atomic.LoadUint64(&m.createdCount),
		StatusUpdates:            atomic.LoadUint64(&m.statusCount),
		GateAttempts:             atomic.LoadUint64(&m.gateCount),
		GateFailures:             atomic.LoadUint64(&m.gateFailureCount),
		FeedBroadcasts:           atomic.LoadUint64(&m.broadcastCount),
		StorageOperations:        atomic.LoadUint64(&m.storageCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
