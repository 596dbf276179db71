package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the order core.
type Metrics struct {
	// OrdersCreated counts successfully created orders.
	OrdersCreated prometheus.Counter
	// OrdersCancelled counts cancelled orders, labelled by who triggered it
	// (client or sweeper).
	OrdersCancelled *prometheus.CounterVec
	// WebhookOutcomes counts payment webhook reconciliation results by outcome.
	WebhookOutcomes *prometheus.CounterVec
	// RequestDuration tracks HTTP request latency per route.
	RequestDuration *prometheus.HistogramVec
}

// New registers and returns the application collectors.
func New() *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agromarket",
			Name:      "orders_created_total",
			Help:      "Total number of orders created.",
		}),
		OrdersCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agromarket",
			Name:      "orders_cancelled_total",
			Help:      "Total number of orders cancelled.",
		}, []string{"source"}),
		WebhookOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agromarket",
			Name:      "payment_webhook_outcomes_total",
			Help:      "Payment webhook reconciliation results by outcome.",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agromarket",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
	}

	prometheus.MustRegister(m.OrdersCreated, m.OrdersCancelled, m.WebhookOutcomes, m.RequestDuration)
	return m
}

// Handler returns the exposition handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
