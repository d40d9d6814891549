package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/comandas/internal/notification"
)

type NotificationRepo struct {
	collection *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) *NotificationRepo {
	return &NotificationRepo{collection: db.Collection(notificationsCollection)}
}

func (r *NotificationRepo) Append(ctx context.Context, ev *notification.Event) error {
	if ev == nil {
		return fmt.Errorf("notification is nil")
	}

	if _, err := r.collection.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("cannot append notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*notification.Event, error) {
	var ev notification.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "restaurant_id": restaurantID}).Decode(&ev)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get notification: %w", err)
	}
	return &ev, nil
}

func (r *NotificationRepo) List(ctx context.Context, restaurantID string, unreadOnly bool) ([]*notification.Event, error) {
	filter := bson.M{"restaurant_id": restaurantID}
	if unreadOnly {
		filter["read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*notification.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("cannot decode notifications: %w", err)
	}
	return events, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, restaurantID string, id uuid.UUID, at time.Time) error {
	filter := bson.M{"_id": id, "restaurant_id": restaurantID}
	update := bson.M{"$set": bson.M{"read": true, "read_at": at}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot mark notification read: %w", err)
	}

	if result.MatchedCount == 0 {
		return notification.ErrNotFound
	}
	return nil
}
