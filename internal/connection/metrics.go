package connection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainexporter_connection_state",
			Help: "Current connection state (0=disconnected, 1=connecting, 2=connected)",
		},
	)

	reconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_reconnects_total",
			Help: "Total number of connection losses followed by a reconnect",
		},
	)

	dialFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_dial_failures_total",
			Help: "Total number of failed connection attempts",
		},
	)

	sessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chainexporter_sessions_total",
			Help: "Total number of connection sessions started",
		},
	)
)

func ConnectionStateSet(state State) {
	connectionState.Set(float64(state))
}

func ReconnectsInc() {
	reconnects.Inc()
}

func DialFailuresInc() {
	dialFailures.Inc()
}

func SessionsStartedInc() {
	sessionsStarted.Inc()
}
