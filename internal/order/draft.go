package order

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Validate rejects drafts that would produce an order with undefined status
// or nonsensical amounts.
func (d Draft) Validate() error {
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidDraft)
	}
	if strings.TrimSpace(d.PaymentMethod) == "" {
		return fmt.Errorf("%w: missing payment method", ErrInvalidDraft)
	}
	for i, it := range d.Items {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidDraft, i)
		}
		if it.Quantity < 0 || it.Days < 0 || it.Price < 0 || !finite(it.Price) {
			return fmt.Errorf("%w: item %s has negative quantity, days or price", ErrInvalidDraft, it.ID)
		}
	}
	if d.TotalAmount < 0 || d.DeliveryFee < 0 || !finite(d.TotalAmount) || !finite(d.DeliveryFee) {
		return fmt.Errorf("%w: negative totals", ErrInvalidDraft)
	}
	if d.Distance != nil && (*d.Distance < 0 || !finite(*d.Distance)) {
		return fmt.Errorf("%w: bad distance", ErrInvalidDraft)
	}
	if d.GpsCoordinates != nil && !ValidCoordinates(d.GpsCoordinates.Latitude, d.GpsCoordinates.Longitude) {
		return fmt.Errorf("%w: gps coordinates out of range", ErrInvalidDraft)
	}
	return nil
}

func ValidCoordinates(lat, lon float64) bool {
	return finite(lat) && finite(lon) &&
		lat >= -90 && lat <= 90 &&
		lon >= -180 && lon <= 180
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NewID returns "ORD-" followed by 12 upper-case hex characters of a random UUID.
func NewID() string {
	u := uuid.New()
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:12])
}
