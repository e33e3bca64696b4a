package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	storeOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"driver", "operation", "collection"},
	)

	storeOpTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chainexporter_store_operation_duration_seconds",
			Help:    "Duration of document store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	storeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_store_errors_total",
			Help: "Total number of document store errors",
		},
		[]string{"driver", "error_type"},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainexporter_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_errors_total",
			Help: "Total number of errors by component and severity",
		},
		[]string{"component", "severity"},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainexporter_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainexporter_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainexporter_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func StoreOpInc(driver, operation, collection string) {
	storeOps.WithLabelValues(driver, operation, collection).Inc()
}

func StoreOpDuration(driver, operation string, duration time.Duration) {
	storeOpTime.WithLabelValues(driver, operation).Observe(duration.Seconds())
}

func StoreErrorInc(driver, errorType string) {
	storeErrors.WithLabelValues(driver, errorType).Inc()
}

func ErrorInc(component, severity string) {
	Errors.WithLabelValues(component, severity).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	ComponentHealth.WithLabelValues(component).Set(boolAsFloat)
}

// UpdateSystemMetrics updates runtime system metrics.
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
