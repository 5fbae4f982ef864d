package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

const (
	orderEventVersion = 1
	producerName      = "storefront-order-service"
)

type orderEventKind struct {
	name       string
	routingKey string
}

var orderEventKinds = map[order.Change]orderEventKind{
	order.ChangeCreated:         {name: "OrderCreated", routingKey: OrderCreatedRoutingKey},
	order.ChangeStatus:          {name: "OrderStatusChanged", routingKey: OrderStatusChangedRoutingKey},
	order.ChangePaymentVerified: {name: "OrderPaymentVerified", routingKey: OrderPaymentVerifiedRoutingKey},
	order.ChangeDriverLocation:  {name: "OrderDriverLocationUpdated", routingKey: OrderDriverLocationUpdatedRoutingKey},
}

// OrderEnvelope carries the full post-change order snapshot.
type OrderEnvelope = EventEnvelope[order.Order]

// EnvelopeMetadata carries correlation/causation context for emitted events.
type EnvelopeMetadata struct {
	CorrelationID string
	CausationID   string
}

// BuildOrderEnvelope wraps o for change. The order id is the partition key
// so consumers can order events per order by sequence.
func BuildOrderEnvelope(change order.Change, o order.Order, seq int64, meta EnvelopeMetadata, now time.Time) (OrderEnvelope, string, error) {
	kind, ok := orderEventKinds[change]
	if !ok {
		return OrderEnvelope{}, "", fmt.Errorf("no event for change %q", change)
	}
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}

	return OrderEnvelope{
		EventName:     kind.name,
		EventVersion:  orderEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      producerName,
		PartitionKey:  o.ID,
		Sequence:      &seq,
		OccurredAt:    now.UTC(),
		Schema:        fmt.Sprintf("contracts/events/order/%s.v%d.payload.schema.json", kind.name, orderEventVersion),
		Payload:       o,
	}, kind.routingKey, nil
}
