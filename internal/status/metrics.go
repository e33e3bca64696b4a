package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statusCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_status_cycles_total",
			Help: "Total number of status refresh cycles by outcome",
		},
		[]string{"trigger", "status"},
	)

	fieldDefaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_status_field_defaults_total",
			Help: "Total number of status reads replaced by their default value",
		},
		[]string{"field"},
	)

	headBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainexporter_head_block",
			Help: "Number of the last chain head seen by the status projector",
		},
	)

	statsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_stats_recorded_total",
			Help: "Total number of per-block stats snapshots by outcome",
		},
		[]string{"status"},
	)
)

func StatusCycleInc(trigger, status string) {
	statusCycles.WithLabelValues(trigger, status).Inc()
}

func FieldDefaultInc(field string) {
	fieldDefaults.WithLabelValues(field).Inc()
}

func HeadBlockSet(block uint64) {
	headBlock.Set(float64(block))
}

func StatsRecordedInc(status string) {
	statsRecorded.WithLabelValues(status).Inc()
}
