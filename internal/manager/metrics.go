package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentimentd",
			Subsystem: "engine",
			Name:      "predictions_total",
			Help:      "Total successful predictions by label",
		},
		[]string{"label"},
	)

	predictionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentimentd",
			Subsystem: "engine",
			Name:      "prediction_failures_total",
			Help:      "Total failed predictions by reason",
		},
		[]string{"reason"},
	)

	predictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sentimentd",
			Subsystem: "engine",
			Name:      "prediction_duration_seconds",
			Help:      "Duration of engine predictions in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, predictionFailures, predictionDuration)
}
