package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrNotOwner = errors.New("reservation belongs to another user")

	ErrNotConfirmed = errors.New("only confirmed reservations can be changed")

	ErrInvalidTransition = errors.New("status transition is not allowed")
)
