package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/comandas/internal/kitchen"
)

// notArchived keeps soft-deleted orders out of every read.
var notArchived = bson.M{"$ne": true}

type KitchenOrderRepo struct {
	collection *mongo.Collection
}

func NewKitchenOrderRepo(db *mongo.Database) *KitchenOrderRepo {
	return &KitchenOrderRepo{collection: db.Collection(kitchenOrdersCollection)}
}

func (r *KitchenOrderRepo) Create(ctx context.Context, order *kitchen.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("cannot create kitchen order: %w", err)
	}
	return nil
}

func (r *KitchenOrderRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*kitchen.Order, error) {
	filter := bson.M{"_id": id, "restaurant_id": restaurantID, "archived": notArchived}

	var order kitchen.Order
	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get kitchen order: %w", err)
	}
	return &order, nil
}

func (r *KitchenOrderRepo) List(ctx context.Context, restaurantID, status string) ([]*kitchen.Order, error) {
	filter := bson.M{"restaurant_id": restaurantID, "archived": notArchived}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

func (r *KitchenOrderRepo) ListByStatusAll(ctx context.Context, status string) ([]*kitchen.Order, error) {
	return r.find(ctx, bson.M{"status": status, "archived": notArchived})
}

// Update replaces the order in place. A positive expectedVersion turns the
// write into a compare-and-set on the stored version.
func (r *KitchenOrderRepo) Update(ctx context.Context, order *kitchen.Order, expectedVersion int) (bool, error) {
	if order == nil {
		return false, fmt.Errorf("order is nil")
	}

	filter := bson.M{"_id": order.ID, "restaurant_id": order.RestaurantID, "archived": notArchived}
	if expectedVersion > 0 {
		filter["version"] = expectedVersion
	}

	result, err := r.collection.ReplaceOne(ctx, filter, order)
	if err != nil {
		return false, fmt.Errorf("cannot update kitchen order: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *KitchenOrderRepo) Delete(ctx context.Context, restaurantID string, id uuid.UUID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "restaurant_id": restaurantID})
	if err != nil {
		return false, fmt.Errorf("cannot delete kitchen order: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *KitchenOrderRepo) find(ctx context.Context, filter bson.M) ([]*kitchen.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list kitchen orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*kitchen.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("cannot decode kitchen orders: %w", err)
	}
	return orders, nil
}
