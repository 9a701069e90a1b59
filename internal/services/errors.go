// Package services defines the business logic for message intake, reply
// generation, and order extraction. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned when an inbound request carries an empty
	// message body.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTooLong is returned when an inbound message exceeds the maximum
	// configured length limit.
	ErrTooLong = errors.New("message too long")

	// ErrInvalidPhone is returned when the sender identifier does not look
	// like a phone number (optional leading +, digits only).
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrUnparseableResponse indicates the model's order-mode response could
	// not be decoded into the expected field array.
	ErrUnparseableResponse = errors.New("unparseable extraction response")

	// ErrClientNotFound indicates that the requested client does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrOrderNotFound indicates that the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// IncompleteOrderError reports that a structurally valid extraction is
// missing a required field. Field carries the user-facing field name so the
// client can be asked to resend exactly what is absent.
type IncompleteOrderError struct {
	Field string
}

func (e *IncompleteOrderError) Error() string {
	return fmt.Sprintf("incomplete order: missing %s", e.Field)
}
