package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sidehustler_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// TransformDuration tracks completion latency per provider.
	TransformDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sidehustler_transform_duration_seconds",
		Help:    "Time spent waiting on the provider for a transform.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"provider"})

	// TransformsTotal counts transforms by provider and outcome.
	TransformsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sidehustler_transforms_total",
		Help: "Transforms attempted, by provider and result.",
	}, []string{"provider", "result"})

	// InputChars tracks the distribution of input text lengths.
	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sidehustler_input_chars",
		Help:    "Number of characters in transform input text.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// ProviderAvailable tracks whether each provider is reachable.
	ProviderAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sidehustler_provider_available",
		Help: "Whether an LLM provider is available (1) or not (0).",
	}, []string{"provider"})

	// NotificationsTotal counts messages sent to the UI by level.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sidehustler_notifications_total",
		Help: "Messages published to the UI console.",
	}, []string{"level"})
)
