package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/sequence"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits enveloped order lifecycle events on the topic exchange.
type Publisher struct {
	ch  amqpChannel
	seq sequence.Sequencer
	now func() time.Time
}

func NewPublisher(conn *amqp.Connection, seq sequence.Sequencer) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seq), nil
}

func newPublisher(ch amqpChannel, seq sequence.Sequencer) *Publisher {
	return &Publisher{ch: ch, seq: seq, now: time.Now}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// Publish implements order.Publisher.
func (p *Publisher) Publish(ctx context.Context, change order.Change, o order.Order) error {
	seq, err := p.seq.NextSequence(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	meta := EnvelopeMetadata{CorrelationID: middleware.GetCorrelationID(ctx)}
	env, routingKey, err := BuildOrderEnvelope(change, o, seq, meta, p.now())
	if err != nil {
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", env.EventName, err)
	}

	return p.publishJSON(ctx, routingKey, env.CorrelationID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, correlationID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			CorrelationId: correlationID,
			Timestamp:     p.now().UTC(),
			Body:          body,
		},
	)
}
