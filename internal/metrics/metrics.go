package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	// OutcomeEstimated labels impact computations that produced an estimate.
	OutcomeEstimated = "estimated"
	// OutcomeInsufficientData labels computations that found too little signal.
	OutcomeInsufficientData = "insufficient_data"
)

var (
	impactEstimatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trust_engine",
			Name:      "impact_estimates_total",
			Help:      "Impact estimator runs, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	recoveryMeasurementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trust_engine",
			Name:      "recovery_measurements_total",
			Help:      "Recovery measurements appended.",
		},
	)

	statusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trust_engine",
			Name:      "status_transitions_total",
			Help:      "Automatic incident status transitions, partitioned by target status.",
		},
		[]string{"to"},
	)

	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trust_engine",
			Name:      "notification_deliveries_total",
			Help:      "Notification deliveries produced, partitioned by status.",
		},
		[]string{"status"},
	)
)

// Register attaches the engine's collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		impactEstimatesTotal,
		recoveryMeasurementsTotal,
		statusTransitionsTotal,
		deliveriesTotal,
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

// ObserveImpactEstimate records one estimator run with its outcome.
func ObserveImpactEstimate(outcome string) {
	impactEstimatesTotal.WithLabelValues(outcome).Inc()
}

// ObserveRecoveryMeasurement records one appended recovery row.
func ObserveRecoveryMeasurement() {
	recoveryMeasurementsTotal.Inc()
}

// ObserveStatusTransition records one automatic transition to the given status.
func ObserveStatusTransition(to string) {
	statusTransitionsTotal.WithLabelValues(to).Inc()
}

// ObserveDelivery records one produced delivery with its status.
func ObserveDelivery(status string) {
	deliveriesTotal.WithLabelValues(status).Inc()
}
