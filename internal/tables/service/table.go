package service

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/tables/cache"
	tableserrors "tablebook/internal/tables/errors"
	"tablebook/internal/tables/repository"
	"tablebook/internal/tables/validator"
	"tablebook/pkg/config"
	apperrors "tablebook/pkg/errors"
	"tablebook/pkg/model"
	"tablebook/pkg/slot"
)

type TableService interface {
	CreateTable(ctx context.Context, table *model.Table) error
	GetTable(ctx context.Context, tableNumber int) (*model.Table, error)
	GetTables(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, int64, error)
	UpdateTable(ctx context.Context, tableNumber int, update *model.TableUpdate) (*model.Table, error)
	DeleteTable(ctx context.Context, tableNumber int) error

	IsSlotAvailable(ctx context.Context, tableNumber int, date time.Time, startSlot int) (bool, error)
	AddBooking(ctx context.Context, tableNumber int, date time.Time, startSlot int) error
	RemoveBooking(ctx context.Context, tableNumber int, date time.Time, startSlot int) error
	ScanAvailability(ctx context.Context, date time.Time, startSlot, minCapacity int) (*model.AvailabilityScan, error)
	DailyAvailabilityReport(ctx context.Context, date time.Time) ([]*model.TableDayReport, error)
}

type tableService struct {
	repo      repository.TableRepository
	ledger    repository.BookingLedger
	cache     *cache.ReportCache
	validator *validator.TableValidator
	cfg       *config.Config
}

func NewTableService(
	repo repository.TableRepository,
	ledger repository.BookingLedger,
	reportCache *cache.ReportCache,
	validator *validator.TableValidator,
	cfg *config.Config,
) TableService {
	return &tableService{
		repo:      repo,
		ledger:    ledger,
		cache:     reportCache,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *tableService) CreateTable(ctx context.Context, table *model.Table) error {
	if err := s.validator.Validate(table); err != nil {
		return apperrors.Validation("Table validation failed", map[string]any{"errors": err.Error()})
	}

	if err := s.repo.Create(ctx, table); err != nil {
		if errors.Is(err, tableserrors.ErrDuplicateNumber) {
			return apperrors.Conflict(err.Error())
		}
		s.cfg.Log.Error("Failed to create table", "table_number", table.TableNumber, "error", err)
		return apperrors.Internal("Failed to create table", err)
	}

	s.cfg.Log.Info("Table created", "table_number", table.TableNumber, "capacity", table.Capacity)
	return nil
}

func (s *tableService) GetTable(ctx context.Context, tableNumber int) (*model.Table, error) {
	table, err := s.repo.FindByNumber(ctx, tableNumber)
	if err != nil {
		if errors.Is(err, tableserrors.ErrNotFound) {
			return nil, apperrors.NotFound("table")
		}
		return nil, apperrors.Internal("Failed to fetch table", err)
	}
	return table, nil
}

func (s *tableService) GetTables(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	tables, err := s.repo.FindAll(ctx, onlyActive, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list tables", err)
	}

	total, err := s.repo.Count(ctx, onlyActive)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count tables", err)
	}

	return tables, total, nil
}

func (s *tableService) UpdateTable(ctx context.Context, tableNumber int, update *model.TableUpdate) (*model.Table, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Table update validation failed", map[string]any{"errors": err.Error()})
	}

	table, err := s.repo.Update(ctx, tableNumber, update)
	if err != nil {
		if errors.Is(err, tableserrors.ErrNotFound) {
			return nil, apperrors.NotFound("table")
		}
		return nil, apperrors.Internal("Failed to update table", err)
	}

	s.cfg.Log.Info("Table updated", "table_number", tableNumber)
	return table, nil
}

func (s *tableService) DeleteTable(ctx context.Context, tableNumber int) error {
	if err := s.repo.Delete(ctx, tableNumber); err != nil {
		if errors.Is(err, tableserrors.ErrNotFound) {
			return apperrors.NotFound("table")
		}
		return apperrors.Internal("Failed to delete table", err)
	}

	s.cfg.Log.Info("Table deleted", "table_number", tableNumber)
	return nil
}

// IsSlotAvailable reports whether the full dining span starting at startSlot
// is free on the given table. An unknown slot number is simply unavailable,
// not an error.
func (s *tableService) IsSlotAvailable(ctx context.Context, tableNumber int, date time.Time, startSlot int) (bool, error) {
	if !slot.Exists(startSlot) {
		return false, nil
	}

	row, err := s.ledger.FindForTable(ctx, tableNumber, slot.NormalizeDate(date))
	if err != nil {
		if errors.Is(err, tableserrors.ErrLedgerRowNotFound) {
			return true, nil
		}
		return false, apperrors.Internal("Failed to read booking ledger", err)
	}

	return row.SpanFree(startSlot), nil
}

// AddBooking books the span starting at startSlot. The conflict check and the
// write happen in one conditional ledger update, so two concurrent callers
// racing for overlapping slots cannot both succeed.
func (s *tableService) AddBooking(ctx context.Context, tableNumber int, date time.Time, startSlot int) error {
	if !slot.Exists(startSlot) {
		return apperrors.InvalidInput(slot.MsgUnknownSlot)
	}

	day := slot.NormalizeDate(date)
	err := s.ledger.AddSpan(ctx, tableNumber, day, slot.Span(startSlot))
	if err != nil {
		if errors.Is(err, tableserrors.ErrSlotConflict) {
			return apperrors.Conflict(err.Error())
		}
		s.cfg.Log.Error("Failed to book slots",
			"table_number", tableNumber,
			"date", day,
			"start_slot", startSlot,
			"error", err,
		)
		return apperrors.Internal("Failed to book slots", err)
	}

	s.invalidateReport(ctx, day)
	return nil
}

// RemoveBooking releases the span starting at startSlot. Releasing slots that
// are not booked is a no-op, so retries are safe.
func (s *tableService) RemoveBooking(ctx context.Context, tableNumber int, date time.Time, startSlot int) error {
	if !slot.Exists(startSlot) {
		return apperrors.InvalidInput(slot.MsgUnknownSlot)
	}

	day := slot.NormalizeDate(date)
	if err := s.ledger.RemoveSpan(ctx, tableNumber, day, slot.Span(startSlot)); err != nil {
		s.cfg.Log.Error("Failed to release slots",
			"table_number", tableNumber,
			"date", day,
			"start_slot", startSlot,
			"error", err,
		)
		return apperrors.Internal("Failed to release slots", err)
	}

	s.invalidateReport(ctx, day)
	return nil
}

// ScanAvailability partitions the active tables seating at least minCapacity
// guests into those whose span starting at startSlot is free and those where
// it is not. The universe is the actual table inventory, never an assumed
// numeric range.
func (s *tableService) ScanAvailability(ctx context.Context, date time.Time, startSlot, minCapacity int) (*model.AvailabilityScan, error) {
	if !slot.Exists(startSlot) {
		return nil, apperrors.InvalidInput(slot.MsgUnknownSlot)
	}
	if minCapacity < 1 {
		minCapacity = 1
	}

	day := slot.NormalizeDate(date)

	tables, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list active tables", err)
	}

	rows, err := s.ledger.ListForDate(ctx, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to read booking ledger", err)
	}

	rowsByTable := make(map[int]*model.TableBooking, len(rows))
	for _, row := range rows {
		rowsByTable[row.TableNumber] = row
	}

	scan := &model.AvailabilityScan{
		Date:            day,
		Slot:            startSlot,
		MinCapacity:     minCapacity,
		AvailableTables: []int{},
		OccupiedTables:  []int{},
	}
	for _, table := range tables {
		if table.Capacity < minCapacity {
			continue
		}
		if rowsByTable[table.TableNumber].SpanFree(startSlot) {
			scan.AvailableTables = append(scan.AvailableTables, table.TableNumber)
		} else {
			scan.OccupiedTables = append(scan.OccupiedTables, table.TableNumber)
		}
	}

	return scan, nil
}

// DailyAvailabilityReport builds, per active table, the booked and bookable
// start slots for one date. A start slot is bookable only when its whole span
// is free. Results are cached per date for a short TTL.
func (s *tableService) DailyAvailabilityReport(ctx context.Context, date time.Time) ([]*model.TableDayReport, error) {
	day := slot.NormalizeDate(date)

	if cached, err := s.cache.GetReport(ctx, day); err != nil {
		s.cfg.Log.Warn("Availability cache read failed", "date", day, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	tables, err := s.repo.FindAll(ctx, true, config.DefaultPaginationLimit, 0)
	if err != nil {
		return nil, apperrors.Internal("Failed to list active tables", err)
	}

	rows, err := s.ledger.ListForDate(ctx, day)
	if err != nil {
		return nil, apperrors.Internal("Failed to read booking ledger", err)
	}

	rowsByTable := make(map[int]*model.TableBooking, len(rows))
	for _, row := range rows {
		rowsByTable[row.TableNumber] = row
	}

	report := make([]*model.TableDayReport, 0, len(tables))
	for _, table := range tables {
		row := rowsByTable[table.TableNumber]

		line := &model.TableDayReport{
			TableNumber:    table.TableNumber,
			Capacity:       table.Capacity,
			BookedSlots:    []int{},
			AvailableSlots: []int{},
		}
		if row != nil {
			line.BookedSlots = append(line.BookedSlots, row.BookedSlots...)
		}
		// Available means the slot itself is free; whether a full span can
		// still start there is the scan's question, not the report's.
		for n := slot.First; n <= slot.Last; n++ {
			if !row.Booked(n) {
				line.AvailableSlots = append(line.AvailableSlots, n)
			}
		}
		line.IsFullyBooked = len(line.AvailableSlots) == 0

		report = append(report, line)
	}

	if err := s.cache.SetReport(ctx, day, report); err != nil {
		s.cfg.Log.Warn("Availability cache write failed", "date", day, "error", err)
	}

	return report, nil
}

func (s *tableService) invalidateReport(ctx context.Context, day time.Time) {
	if err := s.cache.InvalidateDate(ctx, day); err != nil {
		s.cfg.Log.Warn("Availability cache invalidation failed", "date", day, "error", err)
	}
}
