package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/comandas/internal/tables"
)

type TableRepo struct {
	collection *mongo.Collection
}

func NewTableRepo(db *mongo.Database) *TableRepo {
	return &TableRepo{collection: db.Collection(tablesCollection)}
}

func (r *TableRepo) Create(ctx context.Context, table *tables.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	if _, err := r.collection.InsertOne(ctx, table); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", tables.ErrDuplicateNumber, table.Number)
		}
		return fmt.Errorf("cannot create table: %w", err)
	}

	return nil
}

func (r *TableRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*tables.Table, error) {
	return r.findOne(ctx, bson.M{"_id": id, "restaurant_id": restaurantID})
}

func (r *TableRepo) GetByNumber(ctx context.Context, restaurantID, number string) (*tables.Table, error) {
	return r.findOne(ctx, bson.M{"restaurant_id": restaurantID, "number": number})
}

func (r *TableRepo) List(ctx context.Context, restaurantID string) ([]*tables.Table, error) {
	return r.find(ctx, bson.M{"restaurant_id": restaurantID})
}

func (r *TableRepo) ListByStatus(ctx context.Context, restaurantID, status string) ([]*tables.Table, error) {
	return r.find(ctx, bson.M{"restaurant_id": restaurantID, "status": status})
}

func (r *TableRepo) Save(ctx context.Context, table *tables.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	filter := bson.M{"_id": table.ID, "restaurant_id": table.RestaurantID}
	result, err := r.collection.ReplaceOne(ctx, filter, table)
	if err != nil {
		return fmt.Errorf("cannot update table: %w", err)
	}

	if result.MatchedCount == 0 {
		return tables.ErrNotFound
	}

	return nil
}

func (r *TableRepo) findOne(ctx context.Context, filter bson.M) (*tables.Table, error) {
	var table tables.Table
	err := r.collection.FindOne(ctx, filter).Decode(&table)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get table: %w", err)
	}
	return &table, nil
}

func (r *TableRepo) find(ctx context.Context, filter bson.M) ([]*tables.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*tables.Table
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode tables: %w", err)
	}

	return result, nil
}
