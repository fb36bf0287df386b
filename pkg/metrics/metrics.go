// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "astrostar"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	teamOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "teams",
		Name:      "operations_total",
		Help:      "Team composition operations by outcome",
	}, []string{"operation", "outcome"})

	membershipRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "teams",
		Name:      "membership_rejections_total",
		Help:      "Membership validation failures by check",
	}, []string{"check"})
)

// Outcome labels for ObserveTeamOperation
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// ObserveHTTPRequest records one finished request. route is the gin route
// template, never the raw path.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveTeamOperation counts create/update/delete/status calls.
func ObserveTeamOperation(operation, outcome string) {
	teamOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveMembershipRejection counts validator failures per check name.
func ObserveMembershipRejection(check string) {
	membershipRejectionsTotal.WithLabelValues(check).Inc()
}
