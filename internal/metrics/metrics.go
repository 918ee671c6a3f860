package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "residence",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes request latency by method and route
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "residence",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LoginAttemptsTotal counts logins by role and outcome
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "residence",
		Name:      "login_attempts_total",
		Help:      "Login attempts by role and result.",
	}, []string{"role", "result"})

	// TokensRevokedTotal counts logouts
	TokensRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "residence",
		Name:      "tokens_revoked_total",
		Help:      "Tokens added to the blacklist.",
	})

	// BillsGeneratedTotal counts bills written by the generator
	BillsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "residence",
		Name:      "bills_generated_total",
		Help:      "Maintenance bills created.",
	})

	// BillsSkippedTotal counts residents skipped because the period was already billed
	BillsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "residence",
		Name:      "bills_skipped_total",
		Help:      "Residents skipped during generation because a bill already existed.",
	})

	// SchedulerRunsTotal counts scheduler runs by job and status
	SchedulerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "residence",
		Name:      "scheduler_runs_total",
		Help:      "Scheduler runs by job and final status.",
	}, []string{"job", "status"})
)
