package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	tableserrors "tablebook/internal/tables/errors"
	"tablebook/pkg/config"
	"tablebook/pkg/model"
)

const (
	TableCollectionName = "Tables"
)

type mongoTableRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type TableRepository interface {
	Create(ctx context.Context, table *model.Table) error
	FindByNumber(ctx context.Context, tableNumber int) (*model.Table, error)
	FindAll(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, error)
	ListActive(ctx context.Context) ([]*model.Table, error)
	Update(ctx context.Context, tableNumber int, update *model.TableUpdate) (*model.Table, error)
	Delete(ctx context.Context, tableNumber int) error
	Count(ctx context.Context, onlyActive bool) (int64, error)
}

func NewMongoTableRepository(cfg *config.Config) TableRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTableRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(TableCollectionName),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics.
func (r *mongoTableRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoTableRepository) Create(ctx context.Context, table *model.Table) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	table.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, table)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %d", tableserrors.ErrDuplicateNumber, table.TableNumber)
		}
		return fmt.Errorf("failed to create table: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		table.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTableRepository) FindByNumber(ctx context.Context, tableNumber int) (*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var table model.Table
	err := r.collection.FindOne(ctx, bson.M{"table_number": tableNumber}).Decode(&table)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tableserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find table: %w", err)
	}

	return &table, nil
}

func (r *mongoTableRepository) FindAll(ctx context.Context, onlyActive bool, limit int, offset int64) ([]*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if onlyActive {
		filter["is_active"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "table_number", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []*model.Table
	if err = cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	return tables, nil
}

// ListActive returns all active tables in ascending table-number order.
// Availability scans iterate over this set, not over an assumed fixed range.
func (r *mongoTableRepository) ListActive(ctx context.Context) ([]*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "table_number", Value: 1}}).
		SetProjection(bson.M{"table_number": 1, "capacity": 1, "is_active": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []*model.Table
	if err = cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode active tables: %w", err)
	}

	return tables, nil
}

func (r *mongoTableRepository) Update(ctx context.Context, tableNumber int, update *model.TableUpdate) (*model.Table, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{}
	if update.Capacity != nil {
		set["capacity"] = *update.Capacity
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	if len(set) == 0 {
		return r.FindByNumber(ctx, tableNumber)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var table model.Table
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"table_number": tableNumber},
		bson.M{"$set": set},
		opts,
	).Decode(&table)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tableserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update table: %w", err)
	}

	return &table, nil
}

func (r *mongoTableRepository) Delete(ctx context.Context, tableNumber int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"table_number": tableNumber})
	if err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}

	if result.DeletedCount == 0 {
		return tableserrors.ErrNotFound
	}

	return nil
}

func (r *mongoTableRepository) Count(ctx context.Context, onlyActive bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if onlyActive {
		filter["is_active"] = true
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tables: %w", err)
	}
	return count, nil
}
