package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cancha_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cancha_bookings_created_total",
			Help: "Total bookings created",
		},
	)

	SlotToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cancha_slot_toggles_total",
			Help: "Disabled-slot toggles by resulting state",
		},
		[]string{"result"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cancha_cache_lookups_total",
			Help: "Read-cache lookups by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	ImageUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cancha_image_upload_seconds",
			Help:    "Duration of image uploads to object storage",
			Buckets: prometheus.DefBuckets,
		},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cancha_outbox_lag_seconds",
			Help: "Lag of outbox publishing",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cancha_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
