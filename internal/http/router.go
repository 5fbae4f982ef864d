package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/middleware"
)

func NewRouter(h *OrderHandler, logger *log.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(logger))
	r.Use(chimw.Logger)
	r.Use(middleware.CORS(corsOrigins))
	r.Use(metrics.Instrument)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{orderId}", h.GetOrder)
		r.Patch("/{orderId}/status", h.UpdateStatus)
		r.Post("/{orderId}/verify-payment", h.VerifyPayment)
		r.Put("/{orderId}/driver-location", h.UpdateDriverLocation)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront-order-service",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, middleware.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}
