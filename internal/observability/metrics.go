package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreated   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taller", Name: "assistance_requests_created_total", Help: "Total assistance requests created"})
	RequestsAccepted  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taller", Name: "assistance_requests_accepted_total", Help: "Total assistance requests accepted by a provider"})
	RequestsCompleted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taller", Name: "assistance_requests_completed_total", Help: "Total assistance requests completed"})
	ReviewsSubmitted  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taller", Name: "reviews_submitted_total", Help: "Total reviews submitted"})
	AssistantFailures = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taller", Name: "assistant_failures_total", Help: "Total hosted-model calls that failed or returned unparseable output"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taller", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taller",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
