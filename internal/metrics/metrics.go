// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerAppends counts AppendTransaction outcomes: accepted, card_credit,
	// invalid_direction, invalid_method, missing_balance, storage_error.
	LedgerAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daybook",
		Name:      "ledger_appends_total",
		Help:      "Ledger append attempts by outcome.",
	}, []string{"outcome"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daybook",
		Name:      "notifications_total",
		Help:      "Outbound notifications by channel and result.",
	}, []string{"channel", "result"})

	FilesStoredBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "daybook",
		Name:      "files_stored_bytes_total",
		Help:      "Bytes accepted by the file store.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daybook",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daybook",
		Name:      "scheduler_runs_total",
		Help:      "Scheduled job executions by job and result.",
	}, []string{"job", "result"})
)
