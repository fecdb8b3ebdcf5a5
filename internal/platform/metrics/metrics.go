package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_http_requests_total",
		Help: "Total HTTP requests processed, labeled by route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bank_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})

	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_transactions_total",
		Help: "Transactions submitted to the engine, labeled by type and outcome",
	}, []string{"type", "outcome"})

	TransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bank_transaction_duration_seconds",
		Help:    "Time to apply a transaction including lock wait and commit",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"type"})

	AccountsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_account_operations_total",
		Help: "Account lifecycle operations, labeled by operation and outcome",
	}, []string{"operation", "outcome"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_notifications_total",
		Help: "Notifications handled by the dispatcher, labeled by publisher and outcome",
	}, []string{"publisher", "outcome"})

	BalanceCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_balance_cache_total",
		Help: "Balance cache lookups, labeled by result",
	}, []string{"result"})
)

// Outcome labels shared by the counters above.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
	OutcomeReplay  = "replayed"
)
