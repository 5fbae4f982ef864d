package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

type HandlerFunc func(ctx context.Context, body []byte) error

// OrderUpdater is the part of the order store the consumers drive.
type OrderUpdater interface {
	VerifyPayment(ctx context.Context, id string) (order.Order, error)
	UpdateDriverLocation(ctx context.Context, id string, lat, lon float64) (order.Order, error)
}

const (
	driverLocationEventName   = "DriverLocationUpdated"
	paymentSucceededEventName = "PaymentSucceeded"
	inboundEventVersion       = 1
)

type DriverLocationPayload struct {
	OrderID   string    `json:"orderId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type PaymentSucceededPayload struct {
	OrderID   string    `json:"orderId"`
	PaymentID string    `json:"paymentId"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// parseInbound accepts either a v1 envelope or the bare payload.
func parseInbound[T any](body []byte, eventName string) (T, string, error) {
	var env EventEnvelope[T]
	if err := json.Unmarshal(body, &env); err == nil && env.EventName != "" {
		if err := env.Validate(eventName, inboundEventVersion); err != nil {
			var zero T
			return zero, "", fmt.Errorf("invalid envelope: %w", err)
		}
		return env.Payload, env.CorrelationID, nil
	}

	var bare T
	if err := json.Unmarshal(body, &bare); err != nil {
		return bare, "", fmt.Errorf("unmarshal %s: %w", eventName, err)
	}
	return bare, "", nil
}

// DriverLocationHandler applies location pings from the driver app.
func DriverLocationHandler(store OrderUpdater, logger *log.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		p, cid, err := parseInbound[DriverLocationPayload](body, driverLocationEventName)
		if err != nil {
			return err
		}
		if p.OrderID == "" {
			return fmt.Errorf("missing orderId")
		}
		if cid != "" {
			ctx = middleware.WithCorrelationID(ctx, cid)
		}

		_, err = store.UpdateDriverLocation(ctx, p.OrderID, p.Latitude, p.Longitude)
		metrics.RecordMutation("update_driver_location", err)
		if skip(err) {
			logger.Printf("ignoring driver location for order %s: %v", p.OrderID, err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("update driver location: %w", err)
		}
		return nil
	}
}

// PaymentSucceededHandler verifies prepaid orders once the provider confirms.
func PaymentSucceededHandler(store OrderUpdater, logger *log.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		p, cid, err := parseInbound[PaymentSucceededPayload](body, paymentSucceededEventName)
		if err != nil {
			return err
		}
		if p.OrderID == "" {
			return fmt.Errorf("missing orderId")
		}
		if cid != "" {
			ctx = middleware.WithCorrelationID(ctx, cid)
		}

		o, err := store.VerifyPayment(ctx, p.OrderID)
		metrics.RecordMutation("verify_payment", err)
		if skip(err) {
			logger.Printf("ignoring payment for order %s: %v", p.OrderID, err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("verify payment: %w", err)
		}
		logger.Printf("payment %s verified order %s, status %s", p.PaymentID, o.ID, o.Status)
		return nil
	}
}

// skip reports errors that redelivery cannot fix.
func skip(err error) bool {
	return errors.Is(err, order.ErrNotFound) || errors.Is(err, order.ErrInvalidTransition)
}
