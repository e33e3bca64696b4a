package push

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_push_messages_total",
			Help: "Total number of push messages queued by topic and delivery mode",
		},
		[]string{"topic", "mode"},
	)

	messagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainexporter_push_messages_dropped_total",
			Help: "Total number of push messages dropped because a subscriber queue was full",
		},
		[]string{"topic"},
	)

	subscribersGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chainexporter_push_subscribers",
			Help: "Number of connected push subscribers",
		},
	)
)

func MessageSentInc(topic, mode string) {
	messagesSent.WithLabelValues(topic, mode).Inc()
}

func MessageDroppedInc(topic string) {
	messagesDropped.WithLabelValues(topic).Inc()
}

func SubscribersSet(n int) {
	subscribersGauge.Set(float64(n))
}
