package db

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	maintenancePasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_sqlite_maintenance_passes_total",
			Help: "SQLite maintenance passes by outcome",
		},
		[]string{"status"},
	)

	maintenanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chainexporter_sqlite_maintenance_duration_seconds",
			Help:    "Duration of SQLite maintenance passes",
			Buckets: prometheus.DefBuckets,
		},
	)

	reclaimedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_sqlite_reclaimed_bytes_total",
			Help: "Bytes reclaimed by SQLite maintenance",
		},
	)

	walCheckpoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_sqlite_wal_checkpoints_total",
			Help: "WAL checkpoints by mode",
		},
		[]string{"mode"},
	)

	vacuums = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_sqlite_vacuums_total",
			Help: "VACUUM runs",
		},
	)

	databaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainexporter_sqlite_size_bytes",
			Help: "Size of the database file with its WAL and SHM files",
		},
	)

	documentsStored = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainexporter_documents",
			Help: "Documents stored per collection, as of the last maintenance pass",
		},
		[]string{"collection"},
	)
)

func observeMaintenance(r Report, err error) {
	maintenanceDuration.Observe(r.Duration.Seconds())

	if err != nil {
		maintenancePasses.WithLabelValues("error").Inc()
		return
	}

	maintenancePasses.WithLabelValues("ok").Inc()
	reclaimedBytes.Add(float64(r.Reclaimed()))
	databaseSize.Set(float64(r.SizeAfter))
	for collection, n := range r.Documents {
		documentsStored.WithLabelValues(collection).Set(float64(n))
	}
}

func WALCheckpointInc(mode string) {
	walCheckpoints.WithLabelValues(mode).Inc()
}

func VacuumRunsInc() {
	vacuums.Inc()
}
