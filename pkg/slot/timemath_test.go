package slot

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateTimeForSlot(t *testing.T) {
	for n := First; n <= Last; n++ {
		instant, ok := DateTimeForSlot(date(2025, time.June, 1), n)
		if !ok {
			t.Fatalf("slot %d: not ok", n)
		}

		h, m, _ := Components(n)
		if instant.Hour() != h || instant.Minute() != m {
			t.Errorf("slot %d: instant %02d:%02d, catalog says %02d:%02d",
				n, instant.Hour(), instant.Minute(), h, m)
		}
		if instant.Year() != 2025 || instant.Month() != time.June || instant.Day() != 1 {
			t.Errorf("slot %d: calendar date drifted to %v", n, instant)
		}
	}
}

func TestDateTimeForSlotDiscardsTimeOfDay(t *testing.T) {
	noisy := time.Date(2025, time.June, 1, 14, 45, 12, 0, time.UTC)
	instant, ok := DateTimeForSlot(noisy, 1)
	if !ok {
		t.Fatal("slot 1: not ok")
	}
	if instant.Hour() != 18 || instant.Minute() != 0 {
		t.Errorf("expected 18:00, got %02d:%02d", instant.Hour(), instant.Minute())
	}
}

func TestDateTimeForSlotInvalid(t *testing.T) {
	if _, ok := DateTimeForSlot(date(2025, time.June, 1), 0); ok {
		t.Error("slot 0 accepted")
	}
	if _, ok := DateTimeForSlot(date(2025, time.June, 1), 10); ok {
		t.Error("slot 10 accepted")
	}
}

func TestHoursBetweenAntisymmetry(t *testing.T) {
	a := time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.June, 1, 17, 30, 0, 0, time.UTC)

	if got := HoursBetween(a, b); got != 2.5 {
		t.Errorf("HoursBetween(a,b) = %v, want 2.5", got)
	}
	if HoursBetween(a, b) != -HoursBetween(b, a) {
		t.Error("HoursBetween is not antisymmetric")
	}
}

func TestCanCreateOrModify(t *testing.T) {
	day := date(2025, time.June, 1)

	// 17:30 against a 20:00 reservation: 2.5h of lead time.
	now := time.Date(2025, time.June, 1, 17, 30, 0, 0, time.UTC)
	d := CanCreateOrModify(day, 5, now)
	if !d.Allowed {
		t.Fatalf("expected allowed, got %+v", d)
	}
	if d.HoursUntil != 2.5 {
		t.Errorf("HoursUntil = %v, want 2.5", d.HoursUntil)
	}

	// 19:30 against the same reservation: only half an hour left.
	now = time.Date(2025, time.June, 1, 19, 30, 0, 0, time.UTC)
	d = CanCreateOrModify(day, 5, now)
	if d.Allowed {
		t.Fatalf("expected disallowed, got %+v", d)
	}
	if d.HoursUntil != 0.5 {
		t.Errorf("HoursUntil = %v, want 0.5", d.HoursUntil)
	}
	if d.Message != MsgTooLateToTouch {
		t.Errorf("message = %q, want %q", d.Message, MsgTooLateToTouch)
	}
}

func TestCanCancel(t *testing.T) {
	day := date(2025, time.June, 1)

	now := time.Date(2025, time.June, 1, 17, 0, 0, 0, time.UTC)
	if d := CanCancel(day, 5, now); !d.Allowed {
		t.Errorf("3h ahead: expected allowed, got %+v", d)
	}

	now = time.Date(2025, time.June, 1, 19, 0, 0, 0, time.UTC)
	d := CanCancel(day, 5, now)
	if d.Allowed {
		t.Errorf("1h ahead: expected disallowed, got %+v", d)
	}
	if d.Message != MsgTooLateCancel {
		t.Errorf("message = %q, want %q", d.Message, MsgTooLateCancel)
	}
}

func TestLeadTimeUnknownSlot(t *testing.T) {
	d := CanCreateOrModify(date(2025, time.June, 1), 12, time.Now())
	if d.Allowed || d.Message != MsgUnknownSlot {
		t.Errorf("expected unknown-slot rejection, got %+v", d)
	}
}
