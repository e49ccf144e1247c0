// Package slot defines the restaurant's fixed evening reservation grid and
// the time arithmetic the booking rules are built on.
//
// The grid is static: nine half-hour slots covering 18:00 through 22:00.
// A reservation always occupies SpanLength consecutive slots starting at its
// recorded slot, regardless of party size.
package slot

import "fmt"

const (
	// First and Last bound the valid slot numbers.
	First = 1
	Last  = 9

	// SpanLength is the number of consecutive slots one reservation occupies.
	SpanLength = 3

	// NotFound is the sentinel label returned for unknown slot numbers.
	NotFound = "N/A"

	openingHour   = 18
	slotMinutes   = 30
	minutesInHour = 60
)

// Entry pairs a slot number with its wall-clock label.
type Entry struct {
	Slot  int    `json:"slot"`
	Label string `json:"label"`
}

// Exists reports whether n is a valid slot number.
func Exists(n int) bool {
	return n >= First && n <= Last
}

// Components returns the hour and minute at which slot n starts.
// ok is false for slot numbers outside the grid.
func Components(n int) (hours, minutes int, ok bool) {
	if !Exists(n) {
		return 0, 0, false
	}
	offset := (n - First) * slotMinutes
	return openingHour + offset/minutesInHour, offset % minutesInHour, true
}

// Label returns the wall-clock label for slot n, or NotFound.
func Label(n int) string {
	h, m, ok := Components(n)
	if !ok {
		return NotFound
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// SlotForLabel is the reverse of Label. ok is false when the label does not
// name a slot on the grid.
func SlotForLabel(label string) (int, bool) {
	for n := First; n <= Last; n++ {
		if Label(n) == label {
			return n, true
		}
	}
	return 0, false
}

// All returns the full grid in ascending slot order.
func All() []Entry {
	entries := make([]Entry, 0, Last-First+1)
	for n := First; n <= Last; n++ {
		entries = append(entries, Entry{Slot: n, Label: Label(n)})
	}
	return entries
}

// Span returns the slot numbers a reservation starting at start occupies.
// The span may run past Last when start is near the end of the grid; the
// ledger stores it as-is so overlap checks stay symmetric.
func Span(start int) []int {
	span := make([]int, SpanLength)
	for i := range span {
		span[i] = start + i
	}
	return span
}
