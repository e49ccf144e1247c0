package model

import (
	"slices"
	"time"

	"tablebook/pkg/slot"
)

// Table is a physical table in the dining room. The per-date slot occupancy
// lives in TableBooking rows, not on the table document itself, so that
// ledger writes can be single atomic updates.
type Table struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TableNumber int       `json:"table_number" bson:"table_number" validate:"required,min=1,max=22"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=12"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// TableUpdate carries the mutable table fields for PATCH requests.
type TableUpdate struct {
	Capacity *int  `json:"capacity,omitempty" validate:"omitempty,min=1,max=12"`
	IsActive *bool `json:"is_active,omitempty"`
}

// TableBooking is one ledger row: the occupied slot numbers of a single table
// on a single calendar date. A row exists only while at least one slot is
// booked; the repository prunes emptied rows.
type TableBooking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	TableNumber int       `json:"table_number" bson:"table_number"`
	Date        time.Time `json:"date" bson:"date"`
	BookedSlots []int     `json:"booked_slots" bson:"booked_slots"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// HasAny reports whether any of the given slot numbers are already booked.
func (b *TableBooking) HasAny(slots []int) bool {
	if b == nil {
		return false
	}
	for _, s := range slots {
		if slices.Contains(b.BookedSlots, s) {
			return true
		}
	}
	return false
}

// SpanFree reports whether the full span starting at start is unoccupied.
// A nil row means the table has no bookings for that date at all.
func (b *TableBooking) SpanFree(start int) bool {
	return !b.HasAny(slot.Span(start))
}

// Booked reports whether a single slot number is occupied.
func (b *TableBooking) Booked(n int) bool {
	if b == nil {
		return false
	}
	return slices.Contains(b.BookedSlots, n)
}

// AvailabilityScan partitions the active tables that seat at least MinCapacity
// guests relative to one (date, slot) query.
type AvailabilityScan struct {
	Date            time.Time `json:"date"`
	Slot            int       `json:"slot"`
	MinCapacity     int       `json:"min_capacity"`
	AvailableTables []int     `json:"available_tables"`
	OccupiedTables  []int     `json:"occupied_tables"`
}

// TableDayReport is one table's line in the daily availability report.
type TableDayReport struct {
	TableNumber    int   `json:"table_number"`
	Capacity       int   `json:"capacity"`
	BookedSlots    []int `json:"booked_slots"`
	AvailableSlots []int `json:"available_slots"`
	IsFullyBooked  bool  `json:"is_fully_booked"`
}
