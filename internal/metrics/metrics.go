// Package metrics exposes order counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// OrderMetrics holds every order-related collector
type OrderMetrics struct {
	registry *prometheus.Registry

	OrdersCreatedTotal       *prometheus.CounterVec
	OrdersCreatedAmountTotal *prometheus.CounterVec
	CommissionTotal          *prometheus.CounterVec
	OrderStatusTotal         *prometheus.CounterVec
	OrderErrorsTotal         *prometheus.CounterVec
}

// NewOrderMetrics registers the order collectors on a fresh registry
func NewOrderMetrics() *OrderMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &OrderMetrics{
		registry: registry,

		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created",
			},
			[]string{"store_id", "payment_method"},
		),

		OrdersCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_amount_total",
				Help: "Total amount of created orders in BRL",
			},
			[]string{"store_id"},
		),

		CommissionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_commission_total",
				Help: "Total platform commission in BRL",
			},
			[]string{"store_id"},
		),

		OrderStatusTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_transitions_total",
				Help: "Order status transitions by target status",
			},
			[]string{"store_id", "status"},
		),

		OrderErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_errors_total",
				Help: "Rejected order creations by reason",
			},
			[]string{"reason"},
		),
	}
}

// RecordOrderCreated records a committed order
func (m *OrderMetrics) RecordOrderCreated(storeID, paymentMethod string, total, commission decimal.Decimal) {
	m.OrdersCreatedTotal.WithLabelValues(storeID, paymentMethod).Inc()
	m.OrdersCreatedAmountTotal.WithLabelValues(storeID).Add(total.InexactFloat64())
	m.CommissionTotal.WithLabelValues(storeID).Add(commission.InexactFloat64())
}

// RecordStatus records a status transition
func (m *OrderMetrics) RecordStatus(storeID, status string) {
	m.OrderStatusTotal.WithLabelValues(storeID, status).Inc()
}

// RecordError records a rejected order creation
func (m *OrderMetrics) RecordError(reason string) {
	m.OrderErrorsTotal.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *OrderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
