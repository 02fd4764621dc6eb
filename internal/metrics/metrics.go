// Package metrics содержит счётчики Prometheus для оформления заказов.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CheckoutAttempts количество попыток оформления заказа.
	CheckoutAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Number of checkout attempts",
		},
	)

	// CheckoutFailures количество отклонённых провайдером попыток оформления.
	CheckoutFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Number of checkout attempts rejected by the payment provider",
		},
	)

	// OrdersPaid количество заказов, подтверждённых webhook-ом провайдера.
	OrdersPaid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_paid_total",
			Help: "Number of orders confirmed as paid",
		},
	)
)

// Register регистрирует счётчики в реестре Prometheus по умолчанию.
func Register() {
	prometheus.MustRegister(CheckoutAttempts, CheckoutFailures, OrdersPaid)
}
