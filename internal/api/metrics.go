package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seizurewatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seizurewatch_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seizurewatch_predictions_total",
			Help: "Scored EEG windows by outcome",
		},
		[]string{"outcome"},
	)

	seizureProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seizurewatch_seizure_probability",
			Help:    "Distribution of model output probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	windowSamples = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seizurewatch_window_samples",
			Help:    "Number of samples per uploaded window",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10),
		},
	)
)
