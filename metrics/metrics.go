package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/propertylabs/rental-radar-alerts-sub000/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_alerts_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_alerts_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	RepoOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_alerts_repo_operations_total",
		Help: "Search repository operations by operation and result.",
	}, []string{"op", "result"})

	RepoDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_alerts_repo_operation_duration_seconds",
		Help:    "Search repository latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	MessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_alerts_messages_total",
		Help: "Outbound messages by result.",
	}, []string{"result"})

	IdentityLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_alerts_identity_lookups_total",
		Help: "Identity provider lookups by source (cache or provider).",
	}, []string{"source"})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests, HTTPDuration, RepoOps, RepoDuration, MessagesSent, IdentityLookups)
}

// ObserveRepoOp is meant to be deferred with a pointer to the named error result.
func ObserveRepoOp(op string, start time.Time, err *error) {
	RepoDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	RepoOps.WithLabelValues(op, result(*err)).Inc()
}

func ObserveHTTP(route string, code int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
