package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reservationserrors "tablebook/internal/reservations/errors"
	"tablebook/internal/reservations/events"
	"tablebook/internal/reservations/repository"
	"tablebook/internal/reservations/validator"
	tableserrors "tablebook/internal/tables/errors"
	tablesrepo "tablebook/internal/tables/repository"
	"tablebook/pkg/config"
	apperrors "tablebook/pkg/errors"
	"tablebook/pkg/model"
	"tablebook/pkg/sanitizer"
	"tablebook/pkg/slot"
)

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string, userID string, isAdmin bool) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByDate(ctx context.Context, date time.Time, limit int, offset int64) ([]*model.Reservation, int64, error)
	UpdateUserReservation(ctx context.Context, id string, userID string, change *model.ReservationUpdate) (*model.Reservation, error)
	CancelUserReservation(ctx context.Context, id string, userID string) error
	UpdateAdminReservation(ctx context.Context, id string, change *model.AdminReservationUpdate) (*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.SlotLockRepository
	ledger    tablesrepo.BookingLedger
	validator *validator.ReservationValidator
	publisher *events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.SlotLockRepository,
	ledger tablesrepo.BookingLedger,
	validator *validator.ReservationValidator,
	publisher *events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		ledger:    ledger,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create validates and persists a new reservation, then books its span on
// every requested table. Per-table booking failures are logged but do not
// roll back the reservation or bookings already applied; the reservation
// stands even when table sync partially fails.
func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	s.sanitize(reservation)
	if reservation.Status == "" {
		reservation.Status = model.StatusPending
	}
	reservation.Date = slot.NormalizeDate(reservation.Date)

	if err := s.validator.Validate(reservation); err != nil {
		return apperrors.Validation("Reservation validation failed", map[string]any{"errors": err.Error()})
	}

	if decision := slot.CanCreateOrModify(reservation.Date, reservation.Slot, s.now()); !decision.Allowed {
		return apperrors.InvalidInput(decision.Message)
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return apperrors.Internal("Failed to create reservation", err)
	}

	for _, tableNumber := range reservation.TableNumbers {
		if err := s.bookTable(ctx, tableNumber, reservation.Date, reservation.Slot); err != nil {
			s.cfg.Log.Error("Failed to book table for reservation",
				"reservation_id", reservation.ID,
				"table_number", tableNumber,
				"date", reservation.Date,
				"slot", reservation.Slot,
				"error", err,
			)
		}
	}

	s.publisher.Publish(ctx, events.EventReservationCreated, reservation)

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"user_id", reservation.UserID,
		"date", reservation.Date,
		"slot", reservation.Slot,
		"tables", reservation.TableNumbers,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string, userID string, isAdmin bool) (*model.Reservation, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && reservation.UserID != userID {
		return nil, apperrors.Forbidden("Reservation belongs to another user")
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reservations, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list reservations", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", err)
	}

	return reservations, total, nil
}

func (s *reservationService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reservations, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list reservations", err)
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", err)
	}

	return reservations, total, nil
}

// GetByDate lists a service date's reservations, used by staff to review the
// evening's book.
func (s *reservationService) GetByDate(ctx context.Context, date time.Time, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)
	date = slot.NormalizeDate(date)

	reservations, err := s.repo.FindByDate(ctx, date, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list reservations", err)
	}

	total, err := s.repo.CountByDate(ctx, date)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", err)
	}

	return reservations, total, nil
}

// UpdateUserReservation applies a guest's change to their own confirmed
// reservation. When the date or slot moves and tables are assigned, each
// table's old span is released before the new one is booked, one table at a
// time; a failure on one table does not block the next.
func (s *reservationService) UpdateUserReservation(ctx context.Context, id string, userID string, change *model.ReservationUpdate) (*model.Reservation, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation.UserID != userID {
		return nil, apperrors.Forbidden("Reservation belongs to another user")
	}
	if reservation.Status != model.StatusConfirmed {
		return nil, apperrors.InvalidInput("Only confirmed reservations can be changed")
	}

	if err := s.validator.ValidateChangeSet(change); err != nil {
		return nil, apperrors.Validation("Reservation update validation failed", map[string]any{"errors": err.Error()})
	}

	if decision := s.validator.ValidateUpdate(reservation, change, s.now()); !decision.IsValid {
		return nil, apperrors.InvalidInput(decision.Errors[0])
	}

	oldDate, oldSlot := reservation.Date, reservation.Slot

	if change.Date != nil {
		reservation.Date = slot.NormalizeDate(*change.Date)
	}
	if change.Slot != nil {
		reservation.Slot = *change.Slot
	}
	if change.Guests != nil {
		reservation.Guests = *change.Guests
	}
	if change.SpecialRequest != nil {
		reservation.SpecialRequest = sanitizer.SanitizeFreeText(*change.SpecialRequest)
	}
	if change.ContactPhone != nil {
		reservation.ContactPhone = sanitizer.SanitizePhone(*change.ContactPhone)
	}

	timeMoved := !reservation.Date.Equal(oldDate) || reservation.Slot != oldSlot
	if timeMoved {
		for _, tableNumber := range reservation.TableNumbers {
			if err := s.ledger.RemoveSpan(ctx, tableNumber, oldDate, slot.Span(oldSlot)); err != nil {
				s.cfg.Log.Error("Failed to release old booking during move",
					"reservation_id", reservation.ID,
					"table_number", tableNumber,
					"date", oldDate,
					"slot", oldSlot,
					"error", err,
				)
				continue
			}
			if err := s.bookTable(ctx, tableNumber, reservation.Date, reservation.Slot); err != nil {
				s.cfg.Log.Error("Failed to book new slot during move",
					"reservation_id", reservation.ID,
					"table_number", tableNumber,
					"date", reservation.Date,
					"slot", reservation.Slot,
					"error", err,
				)
			}
		}
	}

	if err := s.repo.Update(ctx, id, reservation); err != nil {
		s.cfg.Log.Error("Failed to persist reservation update", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	s.publisher.Publish(ctx, events.EventReservationUpdated, reservation)

	s.cfg.Log.Info("Reservation updated",
		"id", reservation.ID,
		"user_id", userID,
		"date", reservation.Date,
		"slot", reservation.Slot,
	)
	return reservation, nil
}

// CancelUserReservation transitions a guest's confirmed reservation to
// cancelled and releases its span on every assigned table. The release is
// best-effort: the cancellation stands even if a table fails to sync.
func (s *reservationService) CancelUserReservation(ctx context.Context, id string, userID string) error {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return err
	}

	if reservation.UserID != userID {
		return apperrors.Forbidden("Reservation belongs to another user")
	}
	if reservation.Status != model.StatusConfirmed {
		return apperrors.InvalidInput("Only confirmed reservations can be cancelled")
	}

	if decision := slot.CanCancel(reservation.Date, reservation.Slot, s.now()); !decision.Allowed {
		return apperrors.InvalidInput(decision.Message)
	}

	reservation.Status = model.StatusCancelled
	if err := s.repo.Update(ctx, id, reservation); err != nil {
		s.cfg.Log.Error("Failed to persist cancellation", "id", id, "error", err)
		return apperrors.Internal("Failed to cancel reservation", err)
	}

	s.releaseTables(ctx, reservation, reservation.TableNumbers)

	s.publisher.Publish(ctx, events.EventReservationCancelled, reservation)

	s.cfg.Log.Info("Reservation cancelled", "id", id, "user_id", userID)
	return nil
}

// UpdateAdminReservation is the privileged path: status transitions along the
// whitelist and arbitrary table reassignment. Table changes always reuse the
// reservation's original date and slot; moving the time is a user-path
// operation.
func (s *reservationService) UpdateAdminReservation(ctx context.Context, id string, change *model.AdminReservationUpdate) (*model.Reservation, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateAdminChangeSet(change); err != nil {
		return nil, apperrors.Validation("Reservation update validation failed", map[string]any{"errors": err.Error()})
	}

	if change.Status != nil && !model.CanTransition(reservation.Status, *change.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"status transition %s -> %s is not allowed", reservation.Status, *change.Status,
		))
	}

	if change.TableNumbers != nil {
		// A terminal reservation must not regain ledger spans.
		switch reservation.Status {
		case model.StatusCancelled, model.StatusCompleted, model.StatusNoShow:
			return nil, apperrors.InvalidInput(fmt.Sprintf(
				"cannot reassign tables on a %s reservation", reservation.Status,
			))
		}
		if err := s.reassignTables(ctx, reservation, *change.TableNumbers); err != nil {
			return nil, err
		}
	}

	if change.Guests != nil {
		reservation.Guests = *change.Guests
	}

	eventType := events.EventReservationUpdated
	if change.Status != nil {
		if *change.Status == model.StatusCancelled && reservation.Status != model.StatusCancelled {
			s.releaseTables(ctx, reservation, reservation.TableNumbers)
			eventType = events.EventReservationCancelled
		}
		reservation.Status = *change.Status
	}

	if err := s.repo.Update(ctx, id, reservation); err != nil {
		s.cfg.Log.Error("Failed to persist admin update", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	s.publisher.Publish(ctx, eventType, reservation)

	s.cfg.Log.Info("Reservation updated by admin",
		"id", reservation.ID,
		"status", reservation.Status,
		"tables", reservation.TableNumbers,
	)
	return reservation, nil
}

// reassignTables moves the reservation's bookings to a new table set inside a
// single transaction. Unlike the best-effort create and cancel paths, a
// reassignment is all-or-nothing: if any new table's span is taken, the old
// assignment stays in place.
func (s *reservationService) reassignTables(ctx context.Context, reservation *model.Reservation, newTables []int) error {
	span := slot.Span(reservation.Slot)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		for _, tableNumber := range reservation.TableNumbers {
			if err := s.ledger.RemoveSpan(sessCtx, tableNumber, reservation.Date, span); err != nil {
				return err
			}
		}
		for _, tableNumber := range newTables {
			if err := s.ledger.AddSpan(sessCtx, tableNumber, reservation.Date, span); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, tableserrors.ErrSlotConflict) {
			return apperrors.Conflict("A reassigned table is already booked for this time")
		}
		s.cfg.Log.Error("Failed to reassign tables",
			"reservation_id", reservation.ID,
			"tables", newTables,
			"error", err,
		)
		return apperrors.Internal("Failed to reassign tables", err)
	}

	reservation.TableNumbers = newTables
	return nil
}

func (s *reservationService) findReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput(err.Error())
		}
		return nil, apperrors.Internal("Failed to fetch reservation", err)
	}

	return reservation, nil
}

// bookTable books one table's span under an advisory lock. The lock narrows
// the window in which two requests race for the same coordinates; the
// ledger's conditional update remains the actual correctness guarantee.
func (s *reservationService) bookTable(ctx context.Context, tableNumber int, date time.Time, startSlot int) error {
	lockID, err := s.acquireSlotLock(ctx, tableNumber, date, startSlot)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	return s.ledger.AddSpan(ctx, tableNumber, date, slot.Span(startSlot))
}

func (s *reservationService) releaseTables(ctx context.Context, reservation *model.Reservation, tableNumbers []int) {
	for _, tableNumber := range tableNumbers {
		if err := s.ledger.RemoveSpan(ctx, tableNumber, reservation.Date, slot.Span(reservation.Slot)); err != nil {
			s.cfg.Log.Error("Failed to release table booking",
				"reservation_id", reservation.ID,
				"table_number", tableNumber,
				"date", reservation.Date,
				"slot", reservation.Slot,
				"error", err,
			)
		}
	}
}

// acquireSlotLock creates an advisory lock keyed by the slot coordinates.
// Returns a conflict error when another request currently holds the lock.
func (s *reservationService) acquireSlotLock(ctx context.Context, tableNumber int, date time.Time, startSlot int) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%d_%s_%d", tableNumber, date.Format("2006-01-02"), startSlot)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *reservationService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *reservationService) sanitize(reservation *model.Reservation) {
	reservation.SpecialRequest = sanitizer.SanitizeFreeText(reservation.SpecialRequest)
	reservation.ContactPhone = sanitizer.SanitizePhone(reservation.ContactPhone)
	reservation.ContactEmail = sanitizer.TrimAndNormalize(reservation.ContactEmail)
}
