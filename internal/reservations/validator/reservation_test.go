package validator

import (
	"io"
	"strings"
	"testing"
	"time"

	"tablebook/pkg/logger"
	"tablebook/pkg/model"
	"tablebook/pkg/slot"
)

func testValidator() *ReservationValidator {
	return NewReservationValidator(logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	}))
}

func intPtr(n int) *int { return &n }

func datePtr(t time.Time) *time.Time { return &t }

func TestValidateUpdate_CurrentSlotTooClose(t *testing.T) {
	v := testValidator()

	// Reservation at slot 5 (20:00); 19:30 is inside the 1 hour window.
	reservation := &model.Reservation{
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local),
		Slot: 5,
	}
	now := time.Date(2026, 6, 1, 19, 30, 0, 0, time.Local)

	// The proposed time is fine on its own, but evaluation must stop at the
	// current-slot check and report only that violation.
	change := &model.ReservationUpdate{
		Date: datePtr(time.Date(2026, 6, 10, 0, 0, 0, 0, time.Local)),
		Slot: intPtr(3),
	}

	decision := v.ValidateUpdate(reservation, change, now)
	if decision.IsValid {
		t.Fatal("update inside the lead-time window must be rejected")
	}
	if len(decision.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", decision.Errors)
	}
	if decision.Errors[0] != slot.MsgTooLateToTouch {
		t.Errorf("errors[0] = %q, want %q", decision.Errors[0], slot.MsgTooLateToTouch)
	}
}

func TestValidateUpdate_ProposedSlotTooClose(t *testing.T) {
	v := testValidator()

	// Current sitting is days away, so step one passes.
	reservation := &model.Reservation{
		Date: time.Date(2026, 6, 10, 0, 0, 0, 0, time.Local),
		Slot: 5,
	}
	now := time.Date(2026, 6, 1, 17, 45, 0, 0, time.Local)

	// Proposed move to today's slot 1 (18:00) is only 15 minutes out.
	change := &model.ReservationUpdate{
		Date: datePtr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)),
		Slot: intPtr(1),
	}

	decision := v.ValidateUpdate(reservation, change, now)
	if decision.IsValid {
		t.Fatal("move into the lead-time window must be rejected")
	}
	if len(decision.Errors) != 1 || decision.Errors[0] != slot.MsgTooLateToTouch {
		t.Errorf("errors = %v, want [%q]", decision.Errors, slot.MsgTooLateToTouch)
	}
}

func TestValidateUpdate_DefaultsUnchangedFields(t *testing.T) {
	v := testValidator()

	reservation := &model.Reservation{
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local),
		Slot: 9, // 22:00
	}
	now := time.Date(2026, 6, 1, 17, 0, 0, 0, time.Local)

	// Only the slot moves; the date must default to the reservation's own.
	change := &model.ReservationUpdate{Slot: intPtr(1)}

	decision := v.ValidateUpdate(reservation, change, now)
	if !decision.IsValid {
		t.Fatalf("move to 18:00 at 17:00 should be allowed, got %v", decision.Errors)
	}

	// At 17:30 the proposed 18:00 target is only half an hour away.
	decision = v.ValidateUpdate(reservation, change, now.Add(30*time.Minute))
	if decision.IsValid {
		t.Fatal("move to 18:00 at 17:30 must be rejected")
	}
}

func TestValidateUpdate_NoTimeChangeSkipsTargetCheck(t *testing.T) {
	v := testValidator()

	reservation := &model.Reservation{
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local),
		Slot: 5,
	}
	now := time.Date(2026, 6, 1, 17, 30, 0, 0, time.Local)

	change := &model.ReservationUpdate{
		SpecialRequest: func() *string { s := "window seat"; return &s }(),
	}

	decision := v.ValidateUpdate(reservation, change, now)
	if !decision.IsValid {
		t.Errorf("free-text-only change should be allowed, got %v", decision.Errors)
	}
	if len(decision.Errors) != 0 {
		t.Errorf("errors = %v, want empty", decision.Errors)
	}
}

func TestValidate_Reservation(t *testing.T) {
	v := testValidator()
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	valid := &model.Reservation{
		UserID:       "user-1",
		Date:         date,
		Slot:         5,
		Guests:       4,
		ContactPhone: "+972501234567",
	}
	if err := v.Validate(valid); err != nil {
		t.Errorf("valid reservation rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(r *model.Reservation)
	}{
		{"missing user", func(r *model.Reservation) { r.UserID = "" }},
		{"slot too high", func(r *model.Reservation) { r.Slot = 10 }},
		{"zero guests", func(r *model.Reservation) { r.Guests = 0 }},
		{"too many guests", func(r *model.Reservation) { r.Guests = 21 }},
		{"bad phone", func(r *model.Reservation) { r.ContactPhone = "12345" }},
		{"bad table number", func(r *model.Reservation) { r.TableNumbers = []int{0} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := *valid
			tc.mutate(&r)
			if err := v.Validate(&r); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

// The slot range is enforced by the custom slot_number tag, so out-of-range
// slots are reported in catalog terms rather than as a bare min/max bound.
func TestValidate_SlotNumberTag(t *testing.T) {
	v := testValidator()

	r := &model.Reservation{
		UserID:       "user-1",
		Date:         time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Slot:         10,
		Guests:       4,
		ContactPhone: "+972501234567",
	}
	err := v.Validate(r)
	if err == nil {
		t.Fatal("slot 10 should be rejected")
	}
	want := "Slot must be a slot number between 1 and 9"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err.Error(), want)
	}

	badSlot := 0
	if err := v.ValidateChangeSet(&model.ReservationUpdate{Slot: &badSlot}); err == nil {
		t.Error("change to slot 0 should be rejected")
	}
}
