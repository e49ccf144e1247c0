package slot

import "time"

// Lead-time thresholds, in hours before the reserved slot.
const (
	CreateModifyLeadHours = 1
	CancelLeadHours       = 2
)

// Fixed policy messages surfaced to the client on violation.
const (
	MsgUnknownSlot    = "unknown time slot"
	MsgTooLateToTouch = "reservations can only be made or changed at least 1 hour in advance"
	MsgTooLateCancel  = "reservations can only be cancelled at least 2 hours in advance"
)

// Decision is the outcome of a lead-time policy check.
type Decision struct {
	Allowed    bool    `json:"allowed"`
	HoursUntil float64 `json:"hours_until"`
	Message    string  `json:"message,omitempty"`
}

// NormalizeDate discards the time-of-day component, keeping the calendar day
// at midnight in t's location. Ledger rows and queries are compared on
// normalized dates only.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateTimeForSlot returns the concrete instant at which slot n starts on the
// given calendar date. ok is false for slot numbers outside the grid.
func DateTimeForSlot(date time.Time, n int) (time.Time, bool) {
	h, m, ok := Components(n)
	if !ok {
		return time.Time{}, false
	}
	day := NormalizeDate(date)
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}

// HoursBetween returns the signed number of hours from earlier to later.
// Negative when later precedes earlier.
func HoursBetween(later, earlier time.Time) float64 {
	return later.Sub(earlier).Hours()
}

// CanCreateOrModify decides whether a reservation targeting (date, n) may be
// created, or whether an existing reservation at (date, n) may still be
// touched. Both call sites share the same one-hour threshold.
func CanCreateOrModify(date time.Time, n int, now time.Time) Decision {
	return leadTimeCheck(date, n, now, CreateModifyLeadHours, MsgTooLateToTouch)
}

// CanCancel decides whether a reservation at (date, n) may still be cancelled.
func CanCancel(date time.Time, n int, now time.Time) Decision {
	return leadTimeCheck(date, n, now, CancelLeadHours, MsgTooLateCancel)
}

func leadTimeCheck(date time.Time, n int, now time.Time, minHours float64, msg string) Decision {
	target, ok := DateTimeForSlot(date, n)
	if !ok {
		return Decision{Allowed: false, Message: MsgUnknownSlot}
	}

	hours := HoursBetween(target, now)
	if hours < minHours {
		return Decision{Allowed: false, HoursUntil: hours, Message: msg}
	}
	return Decision{Allowed: true, HoursUntil: hours}
}
