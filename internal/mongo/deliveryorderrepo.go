package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/comandas/internal/delivery"
	"github.com/appetiteclub/comandas/pkg/enums/deliverystatus"
)

type DeliveryOrderRepo struct {
	collection *mongo.Collection
}

func NewDeliveryOrderRepo(db *mongo.Database) *DeliveryOrderRepo {
	return &DeliveryOrderRepo{collection: db.Collection(deliveryOrdersCollection)}
}

// Create relies on the partial unique index over the source kitchen order
// id, so two racing handoffs cannot both insert.
func (r *DeliveryOrderRepo) Create(ctx context.Context, order *delivery.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return delivery.ErrDuplicateSource
		}
		return fmt.Errorf("cannot create delivery order: %w", err)
	}
	return nil
}

func (r *DeliveryOrderRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*delivery.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id, "restaurant_id": restaurantID}, nil)
}

func (r *DeliveryOrderRepo) FindBySourceKitchenOrderID(ctx context.Context, restaurantID string, kitchenOrderID uuid.UUID) (*delivery.Order, error) {
	filter := bson.M{"restaurant_id": restaurantID, "source_kitchen_order_id": kitchenOrderID}
	return r.findOne(ctx, filter, nil)
}

// FindLatestByCustomer only considers deliveries that are not en route yet
// and carry no source kitchen order id, or kitchenOrderID itself.
func (r *DeliveryOrderRepo) FindLatestByCustomer(ctx context.Context, restaurantID, customerName, address string, kitchenOrderID uuid.UUID) (*delivery.Order, error) {
	filter := bson.M{
		"restaurant_id": restaurantID,
		"customer_name": customerName,
		"address":       address,
		"status": bson.M{"$in": bson.A{
			deliverystatus.Statuses.Pending.Code(),
			deliverystatus.Statuses.Ready.Code(),
		}},
		"$or": bson.A{
			bson.M{"source_kitchen_order_id": bson.M{"$exists": false}},
			bson.M{"source_kitchen_order_id": nil},
			bson.M{"source_kitchen_order_id": kitchenOrderID},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.findOne(ctx, filter, opts)
}

func (r *DeliveryOrderRepo) List(ctx context.Context, restaurantID, status string) ([]*delivery.Order, error) {
	filter := bson.M{"restaurant_id": restaurantID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list delivery orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*delivery.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("cannot decode delivery orders: %w", err)
	}
	return orders, nil
}

func (r *DeliveryOrderRepo) Save(ctx context.Context, order *delivery.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	filter := bson.M{"_id": order.ID, "restaurant_id": order.RestaurantID}
	result, err := r.collection.ReplaceOne(ctx, filter, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return delivery.ErrDuplicateSource
		}
		return fmt.Errorf("cannot update delivery order: %w", err)
	}

	if result.MatchedCount == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func (r *DeliveryOrderRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*delivery.Order, error) {
	var order delivery.Order
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&order)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&order)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get delivery order: %w", err)
	}
	return &order, nil
}
