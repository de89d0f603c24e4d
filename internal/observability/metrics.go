package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mediride", Name: "bookings_created_total", Help: "Bookings created through the proxy"},
		[]string{"type"},
	)
	BidsPlaced   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "mediride", Name: "bids_placed_total", Help: "Driver bids forwarded to the backend"})
	BidsApproved = promauto.NewCounter(prometheus.CounterOpts{Namespace: "mediride", Name: "bids_approved_total", Help: "Bid approvals (self-serve and admin)"})
	DemoFallback = promauto.NewCounter(prometheus.CounterOpts{Namespace: "mediride", Name: "demo_fallbacks_total", Help: "Listing requests served from demo data after a backend failure"})
	TokenRefresh = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mediride", Name: "token_refreshes_total", Help: "Access token refresh attempts by outcome"},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mediride", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediride",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
