package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	tableserrors "tablebook/internal/tables/errors"
	"tablebook/pkg/config"
	"tablebook/pkg/model"
)

const (
	LedgerCollectionName = "Table_bookings"
)

// BookingLedger records which slots of which table are occupied on a date.
// AddSpan must be atomic: a concurrent writer racing for the same slots
// must lose, never silently merge.
type BookingLedger interface {
	AddSpan(ctx context.Context, tableNumber int, date time.Time, span []int) error
	RemoveSpan(ctx context.Context, tableNumber int, date time.Time, span []int) error
	FindForTable(ctx context.Context, tableNumber int, date time.Time) (*model.TableBooking, error)
	ListForDate(ctx context.Context, date time.Time) ([]*model.TableBooking, error)
}

type mongoBookingLedger struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLedger(cfg *config.Config) BookingLedger {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLedger{
		cfg:        cfg,
		collection: db.Collection(LedgerCollectionName),
	}
}

func (r *mongoBookingLedger) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// AddSpan books every slot in span in one conditional update. The filter
// only matches a row whose booked_slots contain none of the span, so the
// check and the write are a single server-side operation:
//
//   - row exists, span free  -> $push appends the span, sorted
//   - row exists, overlap    -> filter misses; the upsert then collides with
//     the unique (table_number, date) index and reports a duplicate key
//   - no row                 -> upsert creates it with exactly the span
func (r *mongoBookingLedger) AddSpan(ctx context.Context, tableNumber int, date time.Time, span []int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"table_number": tableNumber,
		"date":         date,
		"booked_slots": bson.M{"$nin": span},
	}
	update := bson.M{
		"$push": bson.M{
			"booked_slots": bson.M{"$each": span, "$sort": 1},
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: table %d", tableserrors.ErrSlotConflict, tableNumber)
		}
		return fmt.Errorf("failed to book slots for table %d: %w", tableNumber, err)
	}

	return nil
}

// RemoveSpan releases the span's slots and prunes the row when it empties.
// Releasing slots that were never booked is a no-op.
func (r *mongoBookingLedger) RemoveSpan(ctx context.Context, tableNumber int, date time.Time, span []int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"table_number": tableNumber,
		"date":         date,
	}
	update := bson.M{
		"$pull": bson.M{
			"booked_slots": bson.M{"$in": span},
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release slots for table %d: %w", tableNumber, err)
	}
	if result.MatchedCount == 0 {
		return nil
	}

	prune := bson.M{
		"table_number": tableNumber,
		"date":         date,
		"booked_slots": bson.M{"$size": 0},
	}
	if _, err := r.collection.DeleteOne(ctx, prune); err != nil {
		return fmt.Errorf("failed to prune empty ledger row for table %d: %w", tableNumber, err)
	}

	return nil
}

func (r *mongoBookingLedger) FindForTable(ctx context.Context, tableNumber int, date time.Time) (*model.TableBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"table_number": tableNumber,
		"date":         date,
	}

	var row model.TableBooking
	err := r.collection.FindOne(ctx, filter).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tableserrors.ErrLedgerRowNotFound
		}
		return nil, fmt.Errorf("failed to find ledger row: %w", err)
	}

	return &row, nil
}

func (r *mongoBookingLedger) ListForDate(ctx context.Context, date time.Time) ([]*model.TableBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "table_number", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger rows: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []*model.TableBooking
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode ledger rows: %w", err)
	}

	return rows, nil
}
