package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpMetricsOnce sync.Once

var httpMetricsInstance *HTTPMetrics

// HTTPMetrics holds Prometheus metrics for the HTTP surface.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec   // filevault_http_requests_total{path,status}
	RequestDuration *prometheus.HistogramVec // filevault_http_request_duration_seconds{path}
}

// InitHTTPMetrics initializes the HTTP metrics. Metrics are only
// registered once; subsequent calls return the same instance.
func InitHTTPMetrics(registry prometheus.Registerer) *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		if registry == nil {
			registry = prometheus.DefaultRegisterer
		}
		httpMetricsInstance = &HTTPMetrics{
			RequestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
				Name: "filevault_http_requests_total",
				Help: "Total HTTP requests by path and status",
			}, []string{"path", "status"}),

			RequestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
				Name:    "filevault_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"path"}),
		}
	})
	return httpMetricsInstance
}

// Metrics records request counts and durations.
type Metrics struct {
	metrics *HTTPMetrics
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	return &Metrics{metrics: InitHTTPMetrics(registry)}
}

// Handler wraps next with request accounting.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.metrics.RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		m.metrics.RequestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
