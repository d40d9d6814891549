package event

import "time"

const (
	NotificationsTopic = "notifications.orders"
	EventOrderReady    = "order-ready"
)

type NotificationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	Notes     string  `json:"notes,omitempty"`
}

// OrderReadyEvent mirrors a notification log entry on the bus so dashboards
// can react without polling the log.
type OrderReadyEvent struct {
	EventType      string             `json:"event_type"`
	NotificationID string             `json:"notification_id"`
	RestaurantID   string             `json:"restaurant_id"`
	OrderID        string             `json:"order_id"`
	Destination    string             `json:"destination"`
	CustomerName   string             `json:"customer_name,omitempty"`
	Items          []NotificationItem `json:"items"`
	Total          float64            `json:"total"`
	OccurredAt     time.Time          `json:"occurred_at"`
}
