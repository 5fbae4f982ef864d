package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/webhook"
)

// OrderService is the order store as seen by the HTTP layer.
type OrderService interface {
	Create(ctx context.Context, d order.Draft) (order.Order, error)
	List(ctx context.Context) ([]order.Order, error)
	GetByID(ctx context.Context, id string) (order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status) (order.Order, error)
	VerifyPayment(ctx context.Context, id string) (order.Order, error)
	UpdateDriverLocation(ctx context.Context, id string, lat, lon float64) (order.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON body of at most maxBodyBytes and writes the error
// response itself when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var d order.Draft
	if !decodeBody(w, r, &d) {
		return
	}
	if d.GpsCoordinates == nil {
		d.GpsCoordinates = webhook.ExtractGPSCoordinates(d.DeliveryAddress)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.Create(ctx, d)
	metrics.RecordMutation("create", err)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	metrics.RecordCreated(o.PaymentMethod)

	w.Header().Set("Location", "/api/orders/"+o.ID)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.UpdateStatus(ctx, orderID, order.Status(req.Status))
	metrics.RecordMutation("update_status", err)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.VerifyPayment(ctx, orderID)
	metrics.RecordMutation("verify_payment", err)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *OrderHandler) UpdateDriverLocation(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req locationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.orders.UpdateDriverLocation(ctx, orderID, *req.Latitude, *req.Longitude)
	metrics.RecordMutation("update_driver_location", err)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidDraft),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidLocation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "failed to save order")
	}
}
