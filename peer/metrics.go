package peer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spvpeer_messages_in_total",
		Help: "Messages received from the peer, by command.",
	}, []string{"command"})

	messagesOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spvpeer_messages_out_total",
		Help: "Messages sent to the peer, by command.",
	}, []string{"command"})

	currentHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spvpeer_height",
		Help: "Current chain tip height as observed by this session.",
	})

	syncCompleted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spvpeer_synced",
		Help: "1 once header sync has exhausted the peer's tip, 0 otherwise.",
	})
)
