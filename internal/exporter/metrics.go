package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_events_exported_total",
			Help: "Total number of events persisted and broadcast",
		},
		[]string{"exporter", "mode"},
	)

	eventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_events_skipped_total",
			Help: "Total number of events skipped by reason",
		},
		[]string{"exporter", "reason"},
	)

	eventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_events_failed_total",
			Help: "Total number of events that failed to persist",
		},
		[]string{"exporter"},
	)

	checkpointBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainexporter_checkpoint_block",
			Help: "Stored checkpoint block of each exporter",
		},
		[]string{"exporter"},
	)

	liveGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chainexporter_exporter_live",
			Help: "Whether the exporter is processing live logs (1) or not (0)",
		},
		[]string{"exporter"},
	)

	balanceExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_balance_exports_total",
			Help: "Total number of balance exports by outcome",
		},
		[]string{"status"},
	)
)

func EventExportedInc(exporter, mode string) {
	eventsExported.WithLabelValues(exporter, mode).Inc()
}

func EventSkippedInc(exporter, reason string) {
	eventsSkipped.WithLabelValues(exporter, reason).Inc()
}

func EventFailedInc(exporter string) {
	eventsFailed.WithLabelValues(exporter).Inc()
}

func CheckpointSet(exporter string, block uint64) {
	checkpointBlock.WithLabelValues(exporter).Set(float64(block))
}

func LiveSet(exporter string, live bool) {
	v := float64(0)
	if live {
		v = 1
	}
	liveGauge.WithLabelValues(exporter).Set(v)
}

func BalanceExportInc(status string) {
	balanceExports.WithLabelValues(status).Inc()
}
