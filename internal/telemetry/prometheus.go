package telemetry

import "github.com/prometheus/client_golang/prometheus"

const bandroomNamespace string = "bandroom"

var (
	promRoomsTotal   prometheus.Gauge
	promMembersTotal prometheus.Gauge

	promEventsRouted  prometheus.Counter
	promEventsDropped *prometheus.CounterVec
)

func init() {
	promRoomsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: bandroomNamespace,
		Subsystem: "rooms",
		Name:      "total",
	})

	promMembersTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: bandroomNamespace,
		Subsystem: "members",
		Name:      "total",
	})

	promEventsRouted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: bandroomNamespace,
		Subsystem: "events",
		Name:      "routed_total",
	})

	promEventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: bandroomNamespace,
			Subsystem: "events",
			Name:      "dropped_total",
		},
		[]string{"reason"},
	)

	prometheus.MustRegister(promRoomsTotal)
	prometheus.MustRegister(promMembersTotal)
	prometheus.MustRegister(promEventsRouted)
	prometheus.MustRegister(promEventsDropped)
}

func RoomOpened() {
	promRoomsTotal.Inc()
}

func RoomClosed() {
	promRoomsTotal.Dec()
}

func MemberJoined() {
	promMembersTotal.Inc()
}

func MemberLeft() {
	promMembersTotal.Dec()
}

// EventRouted counts one fan-out per recipient actually reached.
func EventRouted(sentTo int) {
	promEventsRouted.Add(float64(sentTo))
}

func EventDropped(reason string) {
	promEventsDropped.WithLabelValues(reason).Inc()
}
