package testutil

import (
	"time"

	"tablebook/pkg/model"
)

type TableBuilder struct {
	table model.Table
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{
		table: model.Table{
			TableNumber: 1,
			Capacity:    4,
			IsActive:    true,
		},
	}
}

func (b *TableBuilder) WithNumber(n int) *TableBuilder {
	b.table.TableNumber = n
	return b
}

func (b *TableBuilder) WithCapacity(capacity int) *TableBuilder {
	b.table.Capacity = capacity
	return b
}

func (b *TableBuilder) Inactive() *TableBuilder {
	b.table.IsActive = false
	return b
}

func (b *TableBuilder) Build() model.Table {
	return b.table
}

type ReservationBuilder struct {
	reservation model.Reservation
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		reservation: model.Reservation{
			UserID:       "test-user",
			Date:         time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
			Slot:         5,
			Guests:       4,
			ContactPhone: "+972501234567",
		},
	}
}

func (b *ReservationBuilder) WithUser(userID string) *ReservationBuilder {
	b.reservation.UserID = userID
	return b
}

func (b *ReservationBuilder) WithDate(date time.Time) *ReservationBuilder {
	b.reservation.Date = date
	return b
}

func (b *ReservationBuilder) WithSlot(slot int) *ReservationBuilder {
	b.reservation.Slot = slot
	return b
}

func (b *ReservationBuilder) WithGuests(guests int) *ReservationBuilder {
	b.reservation.Guests = guests
	return b
}

func (b *ReservationBuilder) WithTables(tables ...int) *ReservationBuilder {
	b.reservation.TableNumbers = tables
	return b
}

func (b *ReservationBuilder) WithSpecialRequest(request string) *ReservationBuilder {
	b.reservation.SpecialRequest = request
	return b
}

func (b *ReservationBuilder) Build() model.Reservation {
	return b.reservation
}
