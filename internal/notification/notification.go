package notification

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const TypeOrderReady = "order-ready"

// Event is one entry of the append-only notification log.
type Event struct {
	ID           uuid.UUID  `json:"id" bson:"_id"`
	RestaurantID string     `json:"restaurantId" bson:"restaurant_id"`
	Type         string     `json:"type" bson:"type"`
	OrderID      uuid.UUID  `json:"orderId" bson:"order_id"`
	Destination  string     `json:"destination" bson:"destination"`
	CustomerName string     `json:"customerName,omitempty" bson:"customer_name,omitempty"`
	Items        []Item     `json:"items" bson:"items"`
	Total        float64    `json:"total" bson:"total"`
	Read         bool       `json:"read" bson:"read"`
	ReadAt       *time.Time `json:"readAt,omitempty" bson:"read_at,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
}

type Item struct {
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	LineTotal float64 `json:"lineTotal" bson:"line_total"`
	Notes     string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (e *Event) GetID() uuid.UUID {
	return e.ID
}

func (e *Event) ResourceType() string {
	return "notification"
}

func (e *Event) BeforeCreate() {
	if e.ID == uuid.Nil {
		e.ID = apt.GenerateNewID()
	}
	if e.Items == nil {
		e.Items = []Item{}
	}
	e.CreatedAt = time.Now().UTC()
}
