// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safepay_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "safepay_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "endpoint"})

	TransactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safepay_transactions_created_total",
		Help: "Transactions recorded as pending",
	})

	TransactionStatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safepay_transaction_status_updates_total",
		Help: "Transactions moved out of pending, labeled by new status",
	}, []string{"status"})

	ClassifierVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safepay_classifier_verdicts_total",
		Help: "Message analyses, labeled by analysis type and risk level",
	}, []string{"analysis_type", "risk_level"})

	ClassifierFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "safepay_classifier_failures_total",
		Help: "Analyses that failed because the classifier was unavailable",
	})
)
