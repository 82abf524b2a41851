package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the payment flow
var (
	PaymentRedirectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_redirects_total",
			Help: "Total number of gateway redirect URLs requested, by result",
		},
		[]string{"result"},
	)

	PaymentCallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Total number of gateway callbacks handled, by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	PaymentCallbackDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_callback_duration_seconds",
			Help:    "Duration of gateway callback processing",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBPoolConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_connections",
			Help: "PostgreSQL pool connections, by state",
		},
		[]string{"state"},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(PaymentRedirectsTotal)
		prometheus.MustRegister(PaymentCallbacksTotal)
		prometheus.MustRegister(PaymentCallbackDuration)
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(DBPoolConnections)
	})
}
