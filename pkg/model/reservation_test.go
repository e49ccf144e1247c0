package model

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusSeated},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusNoShow},
		{StatusSeated, StatusCompleted},
		{StatusConfirmed, StatusConfirmed},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	rejected := []struct{ from, to string }{
		{StatusCancelled, StatusConfirmed},
		{StatusCompleted, StatusSeated},
		{StatusPending, StatusSeated},
		{StatusSeated, StatusCancelled},
		{StatusNoShow, StatusConfirmed},
		{StatusConfirmed, "vip"},
		{"", StatusConfirmed},
	}
	for _, tc := range rejected {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestOccupies(t *testing.T) {
	for status, want := range map[string]bool{
		StatusPending:   false,
		StatusConfirmed: true,
		StatusSeated:    true,
		StatusCompleted: false,
		StatusCancelled: false,
		StatusNoShow:    false,
	} {
		r := Reservation{Status: status}
		if r.Occupies() != want {
			t.Errorf("Occupies() with status %q = %v, want %v", status, r.Occupies(), want)
		}
	}
}

func TestTableBookingSpanFree(t *testing.T) {
	row := &TableBooking{TableNumber: 3, BookedSlots: []int{5, 6, 7}}

	for _, start := range []int{4, 5, 6, 7} {
		if row.SpanFree(start) {
			t.Errorf("span starting at %d should conflict with booked 5,6,7", start)
		}
	}
	for _, start := range []int{1, 2, 8} {
		if !row.SpanFree(start) {
			t.Errorf("span starting at %d should be free", start)
		}
	}

	var none *TableBooking
	if !none.SpanFree(5) {
		t.Error("nil ledger row should be fully free")
	}
}
