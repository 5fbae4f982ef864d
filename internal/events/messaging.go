package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "ecommerce.events"

	OrderCreatedRoutingKey               = "order.created.v1"
	OrderStatusChangedRoutingKey         = "order.status_changed.v1"
	OrderPaymentVerifiedRoutingKey       = "order.payment_verified.v1"
	OrderDriverLocationUpdatedRoutingKey = "order.driver_location_updated.v1"

	DriverLocationRoutingKey   = "driver.location.v1"
	PaymentSucceededRoutingKey = "payment.succeeded.v1"

	storefrontServiceName = "storefront-order-service-go"
)

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

func storefrontQueueName(routingKey string) string {
	return serviceQueue(storefrontServiceName, routingKey)
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
