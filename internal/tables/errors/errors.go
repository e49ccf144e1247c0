package errors

import "errors"

var (
	ErrNotFound = errors.New("table not found")

	ErrInvalidID = errors.New("invalid table ID format")

	ErrDuplicateNumber = errors.New("table number already exists")

	ErrSlotConflict = errors.New("one or more slots in the span are already booked")

	ErrUnknownSlot = errors.New("unknown time slot")

	ErrLedgerRowNotFound = errors.New("no bookings recorded for table on date")
)
