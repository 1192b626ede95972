package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Form submission metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isoforge_submissions_total",
			Help: "Total number of build form submissions",
		},
		[]string{"status"},
	)

	UploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isoforge_uploads_rejected_total",
			Help: "Total number of wallpaper uploads rejected during staging",
		},
		[]string{"reason"},
	)

	// Trigger metrics
	TriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isoforge_triggers_total",
			Help: "Total number of build trigger invocations",
		},
		[]string{"backend", "status"},
	)

	TriggerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "isoforge_trigger_duration_seconds",
			Help:    "Duration of build trigger invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "isoforge_rate_limit_hits_total",
			Help: "Total number of submissions rejected by rate limiting",
		},
	)

	// Release status metrics
	ReleaseChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isoforge_release_checks_total",
			Help: "Total number of release status checks",
		},
		[]string{"result"},
	)
)
