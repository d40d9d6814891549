package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	tablesCollection         = "tables"
	kitchenOrdersCollection  = "kitchen_orders"
	deliveryOrdersCollection = "delivery_orders"
	notificationsCollection  = "notifications"
)

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		tablesCollection: {
			{
				Keys:    bson.D{{Key: "restaurant_id", Value: 1}, {Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		kitchenOrdersCollection: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "destination", Value: 1}}},
		},
		deliveryOrdersCollection: {
			{
				Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "source_kitchen_order_id", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"source_kitchen_order_id": bson.M{"$exists": true}}),
			},
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "customer_name", Value: 1}, {Key: "address", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "read", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
}
