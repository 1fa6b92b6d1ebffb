package service

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricsOnce sync.Once

var metricsInstance *Metrics

// Metrics holds Prometheus metrics for the file pipeline.
type Metrics struct {
	BytesUploaded prometheus.Counter // filevault_bytes_uploaded_total
}

// InitMetrics initializes the file pipeline metrics. Metrics are only
// registered once; subsequent calls return the same instance.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	metricsOnce.Do(func() {
		if registry == nil {
			registry = prometheus.DefaultRegisterer
		}
		metricsInstance = &Metrics{
			BytesUploaded: promauto.With(registry).NewCounter(prometheus.CounterOpts{
				Name: "filevault_bytes_uploaded_total",
				Help: "Total bytes accepted by the upload ingestor",
			}),
		}
	})
	return metricsInstance
}
