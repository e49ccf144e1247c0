package model

import "time"

// Reservation statuses. A reservation is never deleted, only transitioned.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

// validTransitions whitelists the reservation state machine:
// pending -> confirmed | cancelled, confirmed -> seated | cancelled | no-show,
// seated -> completed. Everything else is rejected by the admin guard.
var validTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted},
}

// ValidStatus reports whether s is a known reservation status string.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransition reports whether the status change from -> to is whitelisted.
// A no-op transition (from == to) is always permitted.
func CanTransition(from, to string) bool {
	if from == to {
		return ValidStatus(from)
	}
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Reservation is a guest's booking. Slot is the starting slot of the 3-slot
// span; TableNumbers are the assigned tables, zero or more. While the status
// is confirmed or seated, every assigned table's ledger row for Date must
// contain the full span.
type Reservation struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID         string    `json:"user_id" bson:"user_id" validate:"required"`
	Date           time.Time `json:"date" bson:"date" validate:"required"`
	Slot           int       `json:"slot" bson:"slot" validate:"required,slot_number"`
	Guests         int       `json:"guests" bson:"guests" validate:"required,min=1,max=20"`
	Status         string    `json:"status" bson:"status" validate:"omitempty,oneof=pending confirmed seated completed cancelled no-show"`
	TableNumbers   []int     `json:"table_numbers" bson:"table_numbers" validate:"omitempty,dive,min=1,max=22"`
	ContactPhone   string    `json:"contact_phone" bson:"contact_phone" validate:"required,e164"`
	ContactEmail   string    `json:"contact_email,omitempty" bson:"contact_email,omitempty" validate:"omitempty,email"`
	SpecialRequest string    `json:"special_request,omitempty" bson:"special_request,omitempty" validate:"omitempty,max=500"`
	CreatedAt      time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Occupies reports whether the reservation currently holds its table bookings.
func (r *Reservation) Occupies() bool {
	return r.Status == StatusConfirmed || r.Status == StatusSeated
}

// ReservationUpdate is the user-facing change set: a new date and/or slot,
// plus the free-text fields a guest may edit. Nil pointers mean "unchanged".
type ReservationUpdate struct {
	Date           *time.Time `json:"date,omitempty"`
	Slot           *int       `json:"slot,omitempty" validate:"omitempty,slot_number"`
	Guests         *int       `json:"guests,omitempty" validate:"omitempty,min=1,max=20"`
	SpecialRequest *string    `json:"special_request,omitempty" validate:"omitempty,max=500"`
	ContactPhone   *string    `json:"contact_phone,omitempty" validate:"omitempty,e164"`
}

// AdminReservationUpdate is the privileged change set: status transitions and
// arbitrary table reassignment. Table changes always reuse the reservation's
// original date and slot.
type AdminReservationUpdate struct {
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed seated completed cancelled no-show"`
	TableNumbers *[]int  `json:"table_numbers,omitempty" validate:"omitempty,dive,min=1,max=22"`
	Guests       *int    `json:"guests,omitempty" validate:"omitempty,min=1,max=20"`
}
