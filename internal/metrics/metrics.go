// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PaymentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Payments recorded by agents, by transaction type.",
	}, []string{"transaction_type"})

	PaymentStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_status_changes_total",
		Help: "Payment status updates by target status.",
	}, []string{"status"})

	InvoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoices_created_total",
		Help: "Invoices created.",
	})

	ExportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exports_generated_total",
		Help: "Downloads generated by kind (companies_csv, payments_csv, payments_xlsx, database_zip, invoice_pdf).",
	}, []string{"kind"})
)
