package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageCacheRequests counts page cache lookups by route and result (hit/miss/error).
	PageCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_requests_total",
		Help: "Total number of page cache lookups",
	}, []string{"route", "result"})

	// HTTPRequests counts handled requests by method, route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPLatency records request latency by route template.
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// OutboxEvents counts relayed follow events by result (sent/failed).
	OutboxEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_outbox_events_total",
		Help: "Total number of relayed outbox events",
	}, []string{"result"})
)
