package event

import "time"

const (
	KitchenOrdersTopic             = "kitchen.orders"
	EventKitchenOrderSubmitted     = "kitchen.order.submitted"
	EventKitchenOrderStatusChanged = "kitchen.order.status_changed"
	EventKitchenOrderRemoved       = "kitchen.order.removed"
)

type KitchenOrderEventMetadata struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	RestaurantID string    `json:"restaurant_id"`
	OrderID      string    `json:"order_id"`
	Destination  string    `json:"destination"`
}

type KitchenOrderSubmittedEvent struct {
	KitchenOrderEventMetadata
	CustomerName string  `json:"customer_name,omitempty"`
	ItemCount    int     `json:"item_count"`
	Total        float64 `json:"total"`
	IsAdditional bool    `json:"is_additional,omitempty"`
}

type KitchenOrderStatusChangedEvent struct {
	KitchenOrderEventMetadata
	NewStatus      string `json:"new_status"`
	PreviousStatus string `json:"previous_status"`
	Version        int    `json:"version"`
}
