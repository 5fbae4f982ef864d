package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

const DefaultURL = "https://hook.eu2.make.com/vu3s7gc6ao5gmun1o1t976566txn5t1c"

// StatusError is returned when the endpoint answers outside 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded %d: %s", e.StatusCode, e.Body)
}

// Notifier POSTs order payloads to a single automation endpoint.
// It never retries; every call is bounded by the client timeout.
type Notifier struct {
	url  string
	http *http.Client
	now  func() time.Time
}

func NewNotifier(url string, timeout time.Duration) *Notifier {
	if url == "" {
		url = DefaultURL
	}
	return &Notifier{
		url:  url,
		http: &http.Client{Timeout: timeout},
		now:  time.Now,
	}
}

func (n *Notifier) Notify(ctx context.Context, o order.Order) error {
	body, err := json.Marshal(BuildPayload(o, n.now()))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
