package kitchen

import (
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
)

// Destination is either a table number or one of the DELIVERY / TAKEAWAY
// markers.
type Destination string

const (
	DestinationDelivery Destination = "DELIVERY"
	DestinationTakeaway Destination = "TAKEAWAY"
)

// ParseDestination trims the raw value and folds the markers to upper case.
func ParseDestination(raw string) Destination {
	value := strings.TrimSpace(raw)
	switch strings.ToUpper(value) {
	case string(DestinationDelivery):
		return DestinationDelivery
	case string(DestinationTakeaway):
		return DestinationTakeaway
	}
	return Destination(value)
}

func (d Destination) IsDelivery() bool {
	return d == DestinationDelivery
}

func (d Destination) IsTakeaway() bool {
	return d == DestinationTakeaway
}

// TableNumber returns the table number for dine-in destinations.
func (d Destination) TableNumber() (string, bool) {
	if d == "" || d.IsDelivery() || d.IsTakeaway() {
		return "", false
	}
	return string(d), true
}

func (d Destination) String() string {
	return string(d)
}

type Order struct {
	ID            uuid.UUID   `json:"id" bson:"_id"`
	RestaurantID  string      `json:"restaurantId" bson:"restaurant_id"`
	Destination   Destination `json:"destination" bson:"destination"`
	Items         []Item      `json:"items" bson:"items"`
	Total         float64     `json:"total" bson:"total"`
	CustomerName  string      `json:"customerName,omitempty" bson:"customer_name,omitempty"`
	Notes         string      `json:"notes,omitempty" bson:"notes,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty" bson:"payment_method,omitempty"`
	Address       string      `json:"address,omitempty" bson:"address,omitempty"`
	Phone         string      `json:"phone,omitempty" bson:"phone,omitempty"`
	Status        string      `json:"status" bson:"status"`
	IsAdditional  bool        `json:"isAdditional" bson:"is_additional"`
	ParentOrderID *uuid.UUID  `json:"parentOrderId,omitempty" bson:"parent_order_id,omitempty"`
	Version       int         `json:"version" bson:"version"`
	Archived      bool        `json:"archived,omitempty" bson:"archived"`
	CreatedAt     time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updated_at"`
	ReadyAt       *time.Time  `json:"readyAt,omitempty" bson:"ready_at,omitempty"`
}

type Item struct {
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unitPrice" bson:"unit_price"`
	LineTotal float64 `json:"lineTotal" bson:"line_total"`
	Notes     string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "kitchen-order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:      apt.GenerateNewID(),
		Status:  kitchenstatus.Statuses.Pending.Code(),
		Items:   []Item{},
		Version: 1,
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now().UTC()
}

// CurrentStatus returns the parsed status. Unknown stored values read as
// pending.
func (o *Order) CurrentStatus() kitchenstatus.Status {
	if s := kitchenstatus.ByName(o.Status); s != nil {
		return *s
	}
	return kitchenstatus.Statuses.Pending
}

func (o *Order) IsReady() bool {
	return o.Status == kitchenstatus.Statuses.Ready.Code()
}

// ItemsTotal sums line totals.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.LineTotal
	}
	return total
}

func (i Item) normalized() Item {
	i.Name = strings.TrimSpace(i.Name)
	if i.LineTotal == 0 && i.Quantity > 0 {
		i.LineTotal = float64(i.Quantity) * i.UnitPrice
	}
	return i
}
