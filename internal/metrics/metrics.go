package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels mutations the store accepted.
	OutcomeSuccess = "success"
	// OutcomeNotFound labels removals that found no overlay.
	OutcomeNotFound = "not_found"
	// OutcomeInvalid labels requests rejected before reaching the store.
	OutcomeInvalid = "invalid"
	// OutcomeError labels store failures.
	OutcomeError = "error"
)

var (
	overlayMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tp_updater",
			Name:      "overlay_mutations_total",
			Help:      "Overlay add/remove requests, partitioned by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	storeDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tp_updater",
			Name:      "store_seconds",
			Help:      "Overlay store call latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"},
	)
)

// Register attaches tp-updater collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		overlayMutationsTotal,
		storeDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveMutation counts one add or remove request by outcome.
func ObserveMutation(op, outcome string) {
	overlayMutationsTotal.WithLabelValues(op, outcome).Inc()
}

// ObserveStore records the latency of one store call.
func ObserveStore(op string, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	storeDurationSeconds.WithLabelValues(op).Observe(duration.Seconds())
}
