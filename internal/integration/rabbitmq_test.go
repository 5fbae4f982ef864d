package integration

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/slot"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/testutil"
)

func TestPaymentSucceeded_VerifiesOrderAndPublishes(t *testing.T) {
	testutil.RequireIntegration(t)

	conn := testutil.StartRabbitMQ(t)
	logger := log.New(io.Discard, "", 0)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	publisher, err := events.NewPublisher(conn, sequence.NewMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	fileSlot, err := slot.NewFile(t.TempDir(), "orders")
	require.NoError(t, err)

	store, err := order.NewStore(ctx, fileSlot, order.Options{Logger: logger, Publisher: publisher})
	require.NoError(t, err)

	// observe everything the service emits
	watchCh, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = watchCh.Close() })

	q, err := watchCh.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, watchCh.QueueBind(q.Name, "order.#", events.EventsExchange, false, nil))

	msgs, err := watchCh.Consume(q.Name, "integration-watch", true, true, false, false, nil)
	require.NoError(t, err)

	consumer := events.NewConsumer(conn, logger)
	consumer.Register(events.PaymentSucceededRoutingKey, events.PaymentSucceededHandler(store, logger))
	require.NoError(t, consumer.Start(ctx))

	created, err := store.Create(ctx, order.Draft{
		Items:         []order.Item{{ID: "tool-1", Price: 20, Quantity: 1}},
		TotalAmount:   20,
		PaymentMethod: "promptpay",
	})
	require.NoError(t, err)
	require.Equal(t, order.StatusPaymentVerification, created.Status)
	store.Wait()

	correlationID := uuid.NewString()
	seq := int64(1)
	body, err := json.Marshal(events.EventEnvelope[events.PaymentSucceededPayload]{
		EventName:     "PaymentSucceeded",
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      "payment-service",
		PartitionKey:  created.ID,
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Schema:        "contracts/events/payment/PaymentSucceeded.v1.payload.schema.json",
		Payload: events.PaymentSucceededPayload{
			OrderID:   created.ID,
			PaymentID: "pay-1",
			Amount:    21.4,
			Timestamp: time.Now().UTC(),
		},
	})
	require.NoError(t, err)

	pubCh, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = pubCh.Close() })

	require.NoError(t, pubCh.PublishWithContext(ctx, events.EventsExchange, events.PaymentSucceededRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}))

	var verified events.OrderEnvelope
	require.Eventually(t, func() bool {
		select {
		case msg := <-msgs:
			var env events.OrderEnvelope
			if err := json.Unmarshal(msg.Body, &env); err != nil {
				return false
			}
			if env.EventName != "OrderPaymentVerified" {
				return false
			}
			verified = env
			return true
		default:
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)

	assert.Equal(t, created.ID, verified.PartitionKey)
	assert.Equal(t, correlationID, verified.CorrelationID)
	assert.Equal(t, order.StatusProcessing, verified.Payload.Status)
	require.NotNil(t, verified.Sequence)
	assert.Equal(t, int64(2), *verified.Sequence)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, got.Status)

	store.Wait()
}
