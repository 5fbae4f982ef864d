package order

import "time"

const (
	PaymentCOD = "cod"

	// deliveryWindow is the promised lead time from order placement.
	deliveryWindow = 72 * time.Hour
)

// Item is one rented tool line; Days is the rental duration.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Days     int     `json:"days"`
}

type GpsCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type DriverLocation struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Order struct {
	ID                string          `json:"id"`
	Items             []Item          `json:"items"`
	TotalAmount       float64         `json:"totalAmount"`
	DeliveryFee       float64         `json:"deliveryFee"`
	DeliveryAddress   string          `json:"deliveryAddress"`
	GpsCoordinates    *GpsCoordinates `json:"gpsCoordinates,omitempty"`
	Distance          *float64        `json:"distance,omitempty"`
	PaymentMethod     string          `json:"paymentMethod"`
	Status            Status          `json:"status"`
	OrderDate         time.Time       `json:"orderDate"`
	CustomerInfo      CustomerInfo    `json:"customerInfo"`
	DeliveryTime      string          `json:"deliveryTime"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	PaymentVerified   bool            `json:"paymentVerified"`
	DriverLocation    *DriverLocation `json:"driverLocation,omitempty"`
}

// Clone returns a deep copy so callers never share pointers with the store.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]Item, len(o.Items))
		copy(c.Items, o.Items)
	}
	if o.GpsCoordinates != nil {
		g := *o.GpsCoordinates
		c.GpsCoordinates = &g
	}
	if o.Distance != nil {
		d := *o.Distance
		c.Distance = &d
	}
	if o.DriverLocation != nil {
		dl := *o.DriverLocation
		c.DriverLocation = &dl
	}
	return c
}

// Draft is what a caller supplies to create an order.
type Draft struct {
	Items           []Item          `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	DeliveryFee     float64         `json:"deliveryFee"`
	DeliveryAddress string          `json:"deliveryAddress"`
	GpsCoordinates  *GpsCoordinates `json:"gpsCoordinates,omitempty"`
	Distance        *float64        `json:"distance,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	DeliveryTime    string          `json:"deliveryTime"`
}
