package order

import "fmt"

type Status string

const (
	StatusPending             Status = "pending"
	StatusProcessing          Status = "processing"
	StatusPaymentVerification Status = "payment_verification"
	StatusDelivered           Status = "delivered"
	StatusCompleted           Status = "completed"
)

var statusLabels = map[Status]string{
	StatusPaymentVerification: "Pending Payment",
	StatusPending:             "Pending",
	StatusProcessing:          "Processing",
	StatusDelivered:           "Delivered",
	StatusCompleted:           "Completed",
}

// ParseStatus accepts only the five lifecycle values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Label is the display text sent to the automation endpoint.
// Unknown values pass through; an empty status reads "N/A".
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	if s == "" {
		return "N/A"
	}
	return string(s)
}

// Terminal reports whether no exposed operation may move the order on.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCompleted
}

func initialStatus(paymentMethod string) (Status, bool) {
	if paymentMethod == PaymentCOD {
		return StatusProcessing, true
	}
	return StatusPaymentVerification, false
}
