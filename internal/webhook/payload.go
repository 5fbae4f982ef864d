package webhook

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

const (
	notAvailable = "N/A"
	taxRate      = 0.07

	// millisecond ISO-8601, the shape the automation scenario parses
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Payload is the flat body the automation endpoint expects. Absent values
// are always the literal "N/A", never null.
type Payload struct {
	OrderID           string        `json:"order_id"`
	CustomerName      string        `json:"customer_name"`
	CustomerEmail     string        `json:"customer_email"`
	CustomerPhone     string        `json:"customer_phone"`
	ShippingAddress   string        `json:"shipping_address"`
	GpsLocation       string        `json:"gps_location"`
	GpsMapsLink       string        `json:"gps_maps_link"`
	DriverLocation    string        `json:"driver_location"`
	DriverMapsLink    string        `json:"driver_maps_link"`
	DriverLastUpdated string        `json:"driver_last_updated"`
	DistanceKm        string        `json:"distance_km"`
	OrderedItems      []PayloadItem `json:"ordered_items"`
	TotalAmount       float64       `json:"total_amount"`
	DeliveryFee       float64       `json:"delivery_fee"`
	PaymentMethod     string        `json:"payment_method"`
	OrderStatus       string        `json:"order_status"`
	OrderDate         string        `json:"order_date"`
	DeliveryTime      string        `json:"delivery_time"`
	EstimatedDelivery string        `json:"estimated_delivery"`
}

type PayloadItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Quantity int     `json:"quantity"`
	Days     int     `json:"days"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// BuildPayload flattens o. now fills in a missing order date.
func BuildPayload(o order.Order, now time.Time) Payload {
	p := Payload{
		OrderID:           orNA(o.ID),
		CustomerName:      orNA(o.CustomerInfo.Name),
		CustomerEmail:     orNA(o.CustomerInfo.Email),
		CustomerPhone:     orNA(o.CustomerInfo.Phone),
		ShippingAddress:   orNA(o.DeliveryAddress),
		GpsLocation:       notAvailable,
		GpsMapsLink:       notAvailable,
		DriverLocation:    notAvailable,
		DriverMapsLink:    notAvailable,
		DriverLastUpdated: notAvailable,
		DistanceKm:        FormatDistance(o.Distance),
		OrderedItems:      make([]PayloadItem, 0, len(o.Items)),
		TotalAmount:       TotalWithTax(o.TotalAmount, o.DeliveryFee),
		DeliveryFee:       o.DeliveryFee,
		PaymentMethod:     orNA(o.PaymentMethod),
		OrderStatus:       o.Status.Label(),
		OrderDate:         FormatTimestamp(now),
		DeliveryTime:      orNA(o.DeliveryTime),
		EstimatedDelivery: FormatTimestamp(o.EstimatedDelivery),
	}

	if g := o.GpsCoordinates; g != nil {
		p.GpsLocation = FormatCoordinates(g.Latitude, g.Longitude)
		p.GpsMapsLink = MapsLink(g.Latitude, g.Longitude)
	}
	if d := o.DriverLocation; d != nil {
		p.DriverLocation = FormatCoordinates(d.Latitude, d.Longitude)
		p.DriverMapsLink = MapsLink(d.Latitude, d.Longitude)
		p.DriverLastUpdated = FormatTimestamp(d.LastUpdated)
	}
	if !o.OrderDate.IsZero() {
		p.OrderDate = FormatTimestamp(o.OrderDate)
	}

	for _, it := range o.Items {
		p.OrderedItems = append(p.OrderedItems, FlattenItem(it))
	}
	return p
}

// FlattenItem defaults quantity and days to 1 for display. The subtotal
// uses the stored quantity as-is and the defaulted day count.
func FlattenItem(it order.Item) PayloadItem {
	days := it.Days
	if days == 0 {
		days = 1
	}
	qty := it.Quantity
	if qty == 0 {
		qty = 1
	}
	return PayloadItem{
		ID:       orNA(it.ID),
		Name:     orNA(it.Name),
		Brand:    orNA(it.Brand),
		Quantity: qty,
		Days:     days,
		Price:    it.Price,
		Subtotal: float64(it.Quantity) * it.Price * float64(days),
	}
}

func TotalWithTax(totalAmount, deliveryFee float64) float64 {
	return totalAmount + totalAmount*taxRate + deliveryFee
}

func FormatCoordinates(lat, lon float64) string {
	if !finite(lat) || !finite(lon) {
		return notAvailable
	}
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

// MapsLink keeps the raw coordinates, unrounded.
func MapsLink(lat, lon float64) string {
	if !finite(lat) || !finite(lon) {
		return notAvailable
	}
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)
}

// FormatDistance treats zero like a missing distance.
func FormatDistance(km *float64) string {
	if km == nil || *km == 0 || !finite(*km) {
		return notAvailable
	}
	return strconv.FormatFloat(*km, 'f', 1, 64)
}

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.UTC().Format(timestampLayout)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
