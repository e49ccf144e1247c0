package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	tableserrors "tablebook/internal/tables/errors"
	"tablebook/pkg/model"
)

type ledgerKey struct {
	tableNumber int
	date        string
}

// memoryBookingLedger is a mutex-guarded in-memory ledger with the same
// conflict semantics as the Mongo implementation. Used by tests and by
// tooling that runs without a database.
type memoryBookingLedger struct {
	mu   sync.Mutex
	rows map[ledgerKey][]int
}

func NewMemoryBookingLedger() BookingLedger {
	return &memoryBookingLedger{
		rows: make(map[ledgerKey][]int),
	}
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (r *memoryBookingLedger) AddSpan(_ context.Context, tableNumber int, date time.Time, span []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ledgerKey{tableNumber, dateKey(date)}
	booked := r.rows[key]
	for _, s := range span {
		if slices.Contains(booked, s) {
			return fmt.Errorf("%w: table %d", tableserrors.ErrSlotConflict, tableNumber)
		}
	}

	booked = append(booked, span...)
	sort.Ints(booked)
	r.rows[key] = booked
	return nil
}

func (r *memoryBookingLedger) RemoveSpan(_ context.Context, tableNumber int, date time.Time, span []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ledgerKey{tableNumber, dateKey(date)}
	booked, ok := r.rows[key]
	if !ok {
		return nil
	}

	remaining := booked[:0]
	for _, s := range booked {
		if !slices.Contains(span, s) {
			remaining = append(remaining, s)
		}
	}

	if len(remaining) == 0 {
		delete(r.rows, key)
		return nil
	}
	r.rows[key] = remaining
	return nil
}

func (r *memoryBookingLedger) FindForTable(_ context.Context, tableNumber int, date time.Time) (*model.TableBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ledgerKey{tableNumber, dateKey(date)}
	booked, ok := r.rows[key]
	if !ok {
		return nil, tableserrors.ErrLedgerRowNotFound
	}

	return &model.TableBooking{
		TableNumber: tableNumber,
		Date:        date,
		BookedSlots: slices.Clone(booked),
	}, nil
}

func (r *memoryBookingLedger) ListForDate(_ context.Context, date time.Time) ([]*model.TableBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := dateKey(date)
	var rows []*model.TableBooking
	for key, booked := range r.rows {
		if key.date != day {
			continue
		}
		rows = append(rows, &model.TableBooking{
			TableNumber: key.tableNumber,
			Date:        date,
			BookedSlots: slices.Clone(booked),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TableNumber < rows[j].TableNumber
	})
	return rows, nil
}
