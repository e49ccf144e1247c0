package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsSetCodeAndStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("Table"), CodeNotFound, http.StatusNotFound},
		{NotFoundWithID("Reservation", "abc"), CodeNotFound, http.StatusNotFound},
		{InvalidInput("bad slot"), CodeInvalidInput, http.StatusBadRequest},
		{Validation("invalid reservation", nil), CodeValidation, http.StatusUnprocessableEntity},
		{Unauthorized("missing token"), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{Conflict("slot already booked"), CodeConflict, http.StatusConflict},
		{Internal("db down", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("code = %q, want %q", tc.err.Code, tc.code)
		}
		if tc.err.StatusCode() != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.code, tc.err.StatusCode(), tc.status)
		}
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load tables", cause)

	if got := err.Error(); got != "INTERNAL_ERROR: failed to load tables (caused by: connection refused)" {
		t.Errorf("unexpected error string: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause through Unwrap")
	}
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	orig := Conflict("slot already booked")
	wrapped := fmt.Errorf("create reservation: %w", orig)

	if !IsAppError(wrapped) {
		t.Fatal("IsAppError should see through fmt.Errorf wrapping")
	}
	if got := AsAppError(wrapped); got.Code != CodeConflict {
		t.Errorf("code = %q, want %q", got.Code, CodeConflict)
	}
}

func TestAsAppErrorFallback(t *testing.T) {
	got := AsAppError(errors.New("plain"))
	if got.Code != CodeInternal {
		t.Errorf("plain errors should map to %s, got %s", CodeInternal, got.Code)
	}
}

func TestWithDetails(t *testing.T) {
	err := NotFound("Table").WithDetails(map[string]any{"table_number": 3})
	if err.Details["table_number"] != 3 {
		t.Error("details not attached")
	}
}
