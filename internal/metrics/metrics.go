package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueryActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querydesk_query_actions_total",
			Help: "Action and message submissions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	QueryGroupsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "querydesk_query_groups_created_total",
			Help: "Query groups raised",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "querydesk_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querydesk_events_published_total",
			Help: "Query events written to the stream",
		},
		[]string{"event_type", "result"},
	)

	WorkerEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querydesk_worker_events_total",
			Help: "Query events handled by the report worker",
		},
		[]string{"event_type", "result"},
	)

	EventsReclaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querydesk_events_reclaimed_total",
			Help: "Stale pending events claimed from a dead consumer",
		},
		[]string{"result"},
	)
)

// Outcome labels shared by the counters above.
const (
	OutcomeApplied   = "applied"
	OutcomeReplayed  = "replayed"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
	ResultOK         = "ok"
	ResultFailed     = "failed"
	ResultDuplicate  = "duplicate"
	ResultDeadLetter = "dead_letter"
)
