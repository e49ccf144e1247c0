package service

import (
	"context"
	"io"
	"testing"
	"time"

	tableserrors "tablebook/internal/tables/errors"
	"tablebook/internal/tables/repository"
	"tablebook/internal/tables/validator"
	"tablebook/pkg/config"
	apperrors "tablebook/pkg/errors"
	"tablebook/pkg/logger"
	"tablebook/pkg/model"
)

// Mock table repository for testing
type mockTableRepository struct {
	createFunc       func(ctx context.Context, table *model.Table) error
	findByNumberFunc func(ctx context.Context, tableNumber int) (*model.Table, error)
	findAllFunc      func(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, error)
	listActiveFunc   func(ctx context.Context) ([]*model.Table, error)
	updateFunc       func(ctx context.Context, tableNumber int, update *model.TableUpdate) (*model.Table, error)
	deleteFunc       func(ctx context.Context, tableNumber int) error
	countFunc        func(ctx context.Context, onlyActive bool) (int64, error)
}

func (m *mockTableRepository) Create(ctx context.Context, table *model.Table) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, table)
	}
	return nil
}

func (m *mockTableRepository) FindByNumber(ctx context.Context, tableNumber int) (*model.Table, error) {
	if m.findByNumberFunc != nil {
		return m.findByNumberFunc(ctx, tableNumber)
	}
	return nil, tableserrors.ErrNotFound
}

func (m *mockTableRepository) FindAll(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, onlyActive, limit, offset)
	}
	return []*model.Table{}, nil
}

func (m *mockTableRepository) ListActive(ctx context.Context) ([]*model.Table, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return []*model.Table{}, nil
}

func (m *mockTableRepository) Update(ctx context.Context, tableNumber int, update *model.TableUpdate) (*model.Table, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, tableNumber, update)
	}
	return nil, tableserrors.ErrNotFound
}

func (m *mockTableRepository) Delete(ctx context.Context, tableNumber int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, tableNumber)
	}
	return nil
}

func (m *mockTableRepository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, onlyActive)
	}
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
	}
}

func newTestService(repo repository.TableRepository, ledger repository.BookingLedger) TableService {
	cfg := testConfig()
	return NewTableService(repo, ledger, nil, validator.NewTableValidator(cfg.Log), cfg)
}

func activeTables(numbers ...int) *mockTableRepository {
	build := func() []*model.Table {
		tables := make([]*model.Table, 0, len(numbers))
		for _, n := range numbers {
			tables = append(tables, &model.Table{TableNumber: n, Capacity: 4, IsActive: true})
		}
		return tables
	}
	return &mockTableRepository{
		listActiveFunc: func(ctx context.Context) ([]*model.Table, error) {
			return build(), nil
		},
		findAllFunc: func(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, error) {
			return build(), nil
		},
	}
}

func TestAddBooking_SpanOccupiesThreeSlots(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 1, date, 5); err != nil {
		t.Fatalf("AddBooking(slot 5) failed: %v", err)
	}

	// Slots 5, 6, 7 are taken, so any span overlapping them is unavailable.
	unavailable := []int{3, 4, 5, 6, 7}
	for _, start := range unavailable {
		ok, err := svc.IsSlotAvailable(ctx, 1, date, start)
		if err != nil {
			t.Fatalf("IsSlotAvailable(start=%d) failed: %v", start, err)
		}
		if ok {
			t.Errorf("span starting at %d should conflict with booking at 5", start)
		}
	}

	for _, start := range []int{1, 2, 8, 9} {
		ok, err := svc.IsSlotAvailable(ctx, 1, date, start)
		if err != nil {
			t.Fatalf("IsSlotAvailable(start=%d) failed: %v", start, err)
		}
		if !ok {
			t.Errorf("span starting at %d should be free", start)
		}
	}
}

func TestAddBooking_ConflictIsRejected(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 1, date, 4); err != nil {
		t.Fatalf("first AddBooking failed: %v", err)
	}

	err := svc.AddBooking(ctx, 1, date, 6)
	if err == nil {
		t.Fatal("overlapping AddBooking should fail")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}

	// The losing write must not have left partial state behind.
	ok, err := svc.IsSlotAvailable(ctx, 1, date, 1)
	if err != nil || !ok {
		t.Errorf("slots 1-3 should still be free, got ok=%v err=%v", ok, err)
	}
}

func TestAddBooking_SameSlotOtherTableOrDate(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1, 2), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	otherDate := date.AddDate(0, 0, 1)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 1, date, 5); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}

	if err := svc.AddBooking(ctx, 2, date, 5); err != nil {
		t.Errorf("same slot on another table should succeed: %v", err)
	}
	if err := svc.AddBooking(ctx, 1, otherDate, 5); err != nil {
		t.Errorf("same slot on another date should succeed: %v", err)
	}
}

func TestAddBooking_UnknownSlot(t *testing.T) {
	svc := newTestService(activeTables(1), repository.NewMemoryBookingLedger())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	for _, start := range []int{0, 10, -3} {
		err := svc.AddBooking(context.Background(), 1, date, start)
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("AddBooking(start=%d) = %v, want invalid input", start, err)
		}

		ok, availErr := svc.IsSlotAvailable(context.Background(), 1, date, start)
		if availErr != nil || ok {
			t.Errorf("IsSlotAvailable(start=%d) = (%v, %v), want (false, nil)", start, ok, availErr)
		}
	}
}

func TestRemoveBooking_RoundTripAndPrune(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 1, date, 5); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}
	if err := svc.RemoveBooking(ctx, 1, date, 5); err != nil {
		t.Fatalf("RemoveBooking failed: %v", err)
	}

	// The ledger row must be pruned once its last span is released.
	if _, err := ledger.FindForTable(ctx, 1, date); err != tableserrors.ErrLedgerRowNotFound {
		t.Errorf("expected pruned ledger row, got err=%v", err)
	}

	// Released slots are bookable again.
	if err := svc.AddBooking(ctx, 1, date, 5); err != nil {
		t.Errorf("rebooking released slots failed: %v", err)
	}
}

func TestRemoveBooking_NotBookedIsNoOp(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.RemoveBooking(ctx, 1, date, 5); err != nil {
		t.Errorf("releasing never-booked slots should be a no-op, got %v", err)
	}

	if err := svc.AddBooking(ctx, 1, date, 1); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}
	if err := svc.RemoveBooking(ctx, 1, date, 7); err != nil {
		t.Errorf("releasing a disjoint span should be a no-op, got %v", err)
	}

	row, err := ledger.FindForTable(ctx, 1, date)
	if err != nil {
		t.Fatalf("ledger row missing: %v", err)
	}
	if len(row.BookedSlots) != 3 {
		t.Errorf("booked slots = %v, want the original span intact", row.BookedSlots)
	}
}

func TestScanAvailability_PartitionsActiveTables(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1, 2, 3, 7), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 2, date, 5); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}
	if err := svc.AddBooking(ctx, 7, date, 4); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}

	scan, err := svc.ScanAvailability(ctx, date, 5, 1)
	if err != nil {
		t.Fatalf("ScanAvailability failed: %v", err)
	}

	wantAvailable := []int{1, 3}
	wantOccupied := []int{2, 7}
	if !equalInts(scan.AvailableTables, wantAvailable) {
		t.Errorf("available = %v, want %v", scan.AvailableTables, wantAvailable)
	}
	if !equalInts(scan.OccupiedTables, wantOccupied) {
		t.Errorf("occupied = %v, want %v", scan.OccupiedTables, wantOccupied)
	}
}

func TestScanAvailability_UniverseIsActiveInventory(t *testing.T) {
	// Only tables 5 and 9 exist; a fixed 1..N range would be wrong.
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(5, 9), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	scan, err := svc.ScanAvailability(context.Background(), date, 1, 1)
	if err != nil {
		t.Fatalf("ScanAvailability failed: %v", err)
	}

	if !equalInts(scan.AvailableTables, []int{5, 9}) {
		t.Errorf("available = %v, want [5 9]", scan.AvailableTables)
	}
	if len(scan.OccupiedTables) != 0 {
		t.Errorf("occupied = %v, want empty", scan.OccupiedTables)
	}
}

func TestScanAvailability_CapacityFilter(t *testing.T) {
	repo := &mockTableRepository{
		listActiveFunc: func(ctx context.Context) ([]*model.Table, error) {
			return []*model.Table{
				{TableNumber: 1, Capacity: 2, IsActive: true},
				{TableNumber: 2, Capacity: 6, IsActive: true},
				{TableNumber: 3, Capacity: 10, IsActive: true},
			}, nil
		},
	}
	svc := newTestService(repo, repository.NewMemoryBookingLedger())
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	scan, err := svc.ScanAvailability(context.Background(), date, 5, 6)
	if err != nil {
		t.Fatalf("ScanAvailability failed: %v", err)
	}

	// Table 1 seats too few guests and is excluded entirely.
	if !equalInts(scan.AvailableTables, []int{2, 3}) {
		t.Errorf("available = %v, want [2 3]", scan.AvailableTables)
	}
	if len(scan.OccupiedTables) != 0 {
		t.Errorf("occupied = %v, want empty", scan.OccupiedTables)
	}
}

func TestDailyAvailabilityReport(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1, 2), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 1, date, 5); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}

	report, err := svc.DailyAvailabilityReport(ctx, date)
	if err != nil {
		t.Fatalf("DailyAvailabilityReport failed: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("report lines = %d, want 2", len(report))
	}

	line1 := report[0]
	if line1.TableNumber != 1 {
		t.Fatalf("first line is table %d, want 1", line1.TableNumber)
	}
	if !equalInts(line1.BookedSlots, []int{5, 6, 7}) {
		t.Errorf("table 1 booked = %v, want [5 6 7]", line1.BookedSlots)
	}
	if !equalInts(line1.AvailableSlots, []int{1, 2, 3, 4, 8, 9}) {
		t.Errorf("table 1 available = %v, want [1 2 3 4 8 9]", line1.AvailableSlots)
	}
	if line1.IsFullyBooked {
		t.Error("table 1 still has free slots")
	}

	line2 := report[1]
	if len(line2.BookedSlots) != 0 {
		t.Errorf("table 2 booked = %v, want empty", line2.BookedSlots)
	}
	if !equalInts(line2.AvailableSlots, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Errorf("table 2 available = %v, want all slots", line2.AvailableSlots)
	}
}

// Available slots are counted one by one: a free slot between two booked
// spans shows up even though no 3-slot span fits there anymore.
func TestDailyAvailabilityReport_CountsSlotsIndividually(t *testing.T) {
	ledger := repository.NewMemoryBookingLedger()
	svc := newTestService(activeTables(1), ledger)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if err := svc.AddBooking(ctx, 1, date, 2); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}
	if err := svc.AddBooking(ctx, 1, date, 6); err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}

	report, err := svc.DailyAvailabilityReport(ctx, date)
	if err != nil {
		t.Fatalf("DailyAvailabilityReport failed: %v", err)
	}

	line := report[0]
	if !equalInts(line.BookedSlots, []int{2, 3, 4, 6, 7, 8}) {
		t.Errorf("booked = %v, want [2 3 4 6 7 8]", line.BookedSlots)
	}
	if !equalInts(line.AvailableSlots, []int{1, 5, 9}) {
		t.Errorf("available = %v, want [1 5 9]", line.AvailableSlots)
	}
	if line.IsFullyBooked {
		t.Error("slots 1, 5 and 9 are still free")
	}
}

func TestCreateTable_Validation(t *testing.T) {
	svc := newTestService(&mockTableRepository{}, repository.NewMemoryBookingLedger())

	cases := []struct {
		name  string
		table model.Table
	}{
		{"zero table number", model.Table{TableNumber: 0, Capacity: 4}},
		{"table number too high", model.Table{TableNumber: 23, Capacity: 4}},
		{"zero capacity", model.Table{TableNumber: 1, Capacity: 0}},
		{"capacity too high", model.Table{TableNumber: 1, Capacity: 13}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CreateTable(context.Background(), &tc.table)
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeValidation {
				t.Errorf("CreateTable(%+v) = %v, want validation error", tc.table, err)
			}
		})
	}

	valid := model.Table{TableNumber: 12, Capacity: 6, IsActive: true}
	if err := svc.CreateTable(context.Background(), &valid); err != nil {
		t.Errorf("CreateTable(valid) failed: %v", err)
	}
}

func equalInts(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
