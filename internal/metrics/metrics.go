package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

var (
	OrdersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Orders created, by payment method (cod or prepaid)",
		},
		[]string{"payment_method"},
	)

	OrderMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_mutations_total",
			Help: "Order store operations, by operation and result",
		},
		[]string{"operation", "result"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Asynchronous order notifications, by sink, change and result",
		},
		[]string{"sink", "change", "result"},
	)

	NotificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_notification_duration_seconds",
			Help:    "Time spent delivering an order notification",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	ConsumedMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_consumed_messages_total",
			Help: "Messages consumed from RabbitMQ, by routing key and result",
		},
		[]string{"routing_key", "result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(OrdersCreatedTotal)
	prometheus.MustRegister(OrderMutationsTotal)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(NotificationDuration)
	prometheus.MustRegister(ConsumedMessagesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordCreated counts a new order. Payment methods are caller input, so
// they collapse to cod or prepaid.
func RecordCreated(paymentMethod string) {
	label := "prepaid"
	if paymentMethod == order.PaymentCOD {
		label = "cod"
	}
	OrdersCreatedTotal.WithLabelValues(label).Inc()
}

// RecordMutation counts one store operation.
func RecordMutation(operation string, err error) {
	OrderMutationsTotal.WithLabelValues(operation, result(err)).Inc()
}

func RecordConsumed(routingKey string, err error) {
	ConsumedMessagesTotal.WithLabelValues(routingKey, result(err)).Inc()
}
