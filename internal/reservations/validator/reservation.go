package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tablebook/pkg/logger"
	"tablebook/pkg/model"
	"tablebook/pkg/slot"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// UpdateDecision is the outcome of the lead-time policy evaluation for a
// proposed reservation change. Errors are ordered; callers surfacing a single
// message to the user must take Errors[0].
type UpdateDecision struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("slot_number", validateSlotNumber); err != nil {
		log.Fatal("Failed to register 'slot_number' validator",
			"error", err,
		)
	}

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validateSlotNumber(fl validator.FieldLevel) bool {
	return slot.Exists(int(fl.Field().Int()))
}

func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) ValidateChangeSet(update *model.ReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) ValidateAdminChangeSet(update *model.AdminReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateUpdate applies the lead-time policy to a proposed change of an
// existing reservation. Step one checks the reservation's current date and
// slot: once the original sitting is less than the modify threshold away, the
// booking can no longer be touched, and evaluation stops without looking at
// the proposed time. Step two, reached only when step one passes and the
// change moves the date or slot, checks the proposed target the same way,
// defaulting unchanged fields to the reservation's current values.
func (v *ReservationValidator) ValidateUpdate(reservation *model.Reservation, change *model.ReservationUpdate, now time.Time) UpdateDecision {
	current := slot.CanCreateOrModify(reservation.Date, reservation.Slot, now)
	if !current.Allowed {
		return UpdateDecision{IsValid: false, Errors: []string{current.Message}}
	}

	if change.Date == nil && change.Slot == nil {
		return UpdateDecision{IsValid: true, Errors: []string{}}
	}

	targetDate := reservation.Date
	if change.Date != nil {
		targetDate = *change.Date
	}
	targetSlot := reservation.Slot
	if change.Slot != nil {
		targetSlot = *change.Slot
	}

	proposed := slot.CanCreateOrModify(targetDate, targetSlot, now)
	if !proposed.Allowed {
		return UpdateDecision{IsValid: false, Errors: []string{proposed.Message}}
	}

	return UpdateDecision{IsValid: true, Errors: []string{}}
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +972501234567)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "slot_number":
			message = fmt.Sprintf("%s must be a slot number between %d and %d", err.Field(), slot.First, slot.Last)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
