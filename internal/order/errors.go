package order

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidDraft      = errors.New("invalid order draft")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidLocation   = errors.New("invalid driver location")
)
