package fetcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	windowsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_fetch_windows_total",
			Help: "Total number of block windows queried for historical logs",
		},
	)

	windowSplits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_fetch_window_splits_total",
			Help: "Total number of windows split after a too many results answer",
		},
	)

	logsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_fetch_logs_total",
			Help: "Total number of historical logs fetched",
		},
	)
)

func WindowsFetchedInc() {
	windowsFetched.Inc()
}

func WindowSplitsInc() {
	windowSplits.Inc()
}

func LogsFetchedAdd(count int) {
	logsFetched.Add(float64(count))
}
