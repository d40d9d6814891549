package pkg

import "time"

const (
	// TableStatusTopic delivers status changes for tables.
	TableStatusTopic = "tables.status"

	// EventTableStatusChanged identifies a table status change payload.
	EventTableStatusChanged = "table.status.changed"
)

// Reasons attached to table status events.
const (
	TableReasonCreated  = "table.created"
	TableReasonStatus   = "table.status"
	TableReasonReleased = "table.released"
	TableReasonMoved    = "table.moved"
)

// TableStatusEvent carries enough for floor-plan views to repaint a table
// without reading the table store.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	RestaurantID   string    `json:"restaurant_id"`
	TableID        string    `json:"table_id"`
	Number         string    `json:"number"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	Total          float64   `json:"total"`
	OccurredAt     time.Time `json:"occurred_at"`
}
