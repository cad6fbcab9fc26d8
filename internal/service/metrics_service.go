package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askeland/crewplan-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the scheduling engine.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	detectionDuration prometheus.Observer
	conflictGauge     *prometheus.GaugeVec
	conflictTimeLost  prometheus.Gauge
	validationTotal   *prometheus.CounterVec
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

	detectionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "conflict_detection_duration_seconds",
		Help:    "Duration of full conflict detection passes",
		Buckets: prometheus.DefBuckets,
	})

	conflictGauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "conflicts_detected",
		Help: "Conflicts found in the most recent detection pass",
	}, []string{"severity"})

	conflictTimeLost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conflicts_time_lost_minutes",
		Help: "Estimated minutes lost to conflicts in the most recent pass",
	})

	validationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "change_validations_total",
		Help: "Pre-commit validation outcomes",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, detectionDuration, conflictGauge, conflictTimeLost, validationTotal, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		detectionDuration: detectionDuration,
		conflictGauge:     conflictGauge,
		conflictTimeLost:  conflictTimeLost,
		validationTotal:   validationTotal,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDetectionPass records pass timing and per-severity conflict counts.
func (m *MetricsService) ObserveDetectionPass(duration time.Duration, summary models.ConflictSummary) {
	if m == nil {
		return
	}
	m.detectionDuration.Observe(duration.Seconds())
	for severity, count := range summary.BySeverity {
		m.conflictGauge.WithLabelValues(string(severity)).Set(float64(count))
	}
	m.conflictTimeLost.Set(float64(summary.TotalTimeLostMinutes))
}

// ObserveValidation counts pre-commit gate outcomes.
func (m *MetricsService) ObserveValidation(blocked bool) {
	if m == nil {
		return
	}
	outcome := "allowed"
	if blocked {
		outcome = "blocked"
	}
	m.validationTotal.WithLabelValues(outcome).Inc()
}
