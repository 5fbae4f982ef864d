package events

import (
	"context"
	"fmt"
	"log"
	"sort"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/metrics"
)

const consumerTag = "storefront-order-service"

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// Consumer binds one durable queue per registered routing key.
type Consumer struct {
	conn     *amqp.Connection
	logger   *log.Logger
	handlers map[string]HandlerFunc
}

func NewConsumer(conn *amqp.Connection, logger *log.Logger) *Consumer {
	return &Consumer{conn: conn, logger: logger, handlers: make(map[string]HandlerFunc)}
}

func (c *Consumer) Register(routingKey string, h HandlerFunc) {
	c.handlers[routingKey] = h
}

func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		return fmt.Errorf("declare events exchange: %w", err)
	}

	keys := make([]string, 0, len(c.handlers))
	for k := range c.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rk := range keys {
		queue := storefrontQueueName(rk)
		if _, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			return fmt.Errorf("queue declare %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, rk, EventsExchange, false, nil); err != nil {
			return fmt.Errorf("queue bind %s: %w", queue, err)
		}

		msgs, err := ch.Consume(queue, consumerTag+"."+rk, false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", queue, err)
		}

		go c.loop(ctx, rk, c.handlers[rk], msgs)
	}

	go func() {
		<-ctx.Done()
		_ = ch.Close()
	}()
	return nil
}

func (c *Consumer) loop(ctx context.Context, routingKey string, h HandlerFunc, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Printf("stopping %s consumer", routingKey)
			return
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Printf("%s messages channel closed", routingKey)
				return
			}
			c.process(ctx, routingKey, h, msg)
		}
	}
}

// process acks on success and drops the message otherwise; there is no DLQ.
func (c *Consumer) process(ctx context.Context, routingKey string, h HandlerFunc, msg amqp.Delivery) {
	err := h(ctx, msg.Body)
	metrics.RecordConsumed(routingKey, err)
	if err != nil {
		c.logger.Printf("handle %s message error: %v", routingKey, err)
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}
