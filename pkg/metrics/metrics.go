package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "us", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "us", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	LinkResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "us", Name: "link_resolutions_total", Help: "Link metadata resolutions by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "us", Name: "uploads_total", Help: "Image uploads to the blob store by outcome."},
		[]string{"outcome"},
	)
	EntriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "us", Name: "entries_created_total", Help: "Entries successfully persisted."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(LinkResolutions)
	reg.MustRegister(Uploads)
	reg.MustRegister(EntriesCreated)
}
