package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "portal_"

	resultSuccess = "success"
	resultError   = "error"
	resultDropped = "dropped"
)

var (
	registerOnce sync.Once

	invoiceFetchTotal   *prometheus.CounterVec
	invoiceFetchLatency *prometheus.HistogramVec

	loginSubmitTotal *prometheus.CounterVec

	slipExportTotal *prometheus.CounterVec
)

// Init registers portal metrics. db may be nil when audit storage is disabled.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		invoiceFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_fetch_total",
				Help: "Total invoice reads by result",
			},
			[]string{"result"},
		)
		invoiceFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "invoice_fetch_latency_seconds",
				Help:    "Invoice read latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		loginSubmitTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "login_submit_total",
				Help: "Total login form submissions by role",
			},
			[]string{"role"},
		)

		slipExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "slip_export_total",
				Help: "Total payment slip exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			invoiceFetchTotal,
			invoiceFetchLatency,
			loginSubmitTotal,
			slipExportTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveInvoiceFetch records invoice read duration and result.
func ObserveInvoiceFetch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if invoiceFetchTotal != nil {
		invoiceFetchTotal.WithLabelValues(result).Inc()
	}
	if invoiceFetchLatency != nil {
		invoiceFetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncLoginSubmit increments the login submission counter.
func IncLoginSubmit(role string) {
	if role == "" {
		role = "unknown"
	}
	if loginSubmitTotal != nil {
		loginSubmitTotal.WithLabelValues(role).Inc()
	}
}

// IncSlipExport increments the slip export counter.
func IncSlipExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if slipExportTotal != nil {
		slipExportTotal.WithLabelValues(format, result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultDropped = resultDropped
)
