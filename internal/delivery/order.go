package delivery

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/internal/kitchen"
	"github.com/appetiteclub/comandas/pkg/enums/deliverystatus"
)

type Order struct {
	ID                   uuid.UUID  `json:"id" bson:"_id"`
	RestaurantID         string     `json:"restaurantId" bson:"restaurant_id"`
	CustomerName         string     `json:"customerName" bson:"customer_name"`
	Address              string     `json:"address" bson:"address"`
	Phone                string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Items                []Item     `json:"items" bson:"items"`
	Total                float64    `json:"total" bson:"total"`
	PaymentMethod        string     `json:"paymentMethod,omitempty" bson:"payment_method,omitempty"`
	Status               string     `json:"status" bson:"status"`
	SourceKitchenOrderID *uuid.UUID `json:"sourceKitchenOrderId,omitempty" bson:"source_kitchen_order_id,omitempty"`
	CreatedAt            time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updated_at"`
	ReadyAt              *time.Time `json:"readyAt,omitempty" bson:"ready_at,omitempty"`
	DeliveredAt          *time.Time `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty"`
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
	return "delivery-order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Status: deliverystatus.Statuses.Pending.Code(),
		Items:  []Item{},
	}
}

func (o *Order) BeforeCreate() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) CurrentStatus() deliverystatus.Status {
	if s := deliverystatus.ByName(o.Status); s != nil {
		return *s
	}
	return deliverystatus.Statuses.Pending
}

// IsCorrelatedTo reports whether the delivery carries the kitchen order id.
func (o *Order) IsCorrelatedTo(kitchenOrderID uuid.UUID) bool {
	return o.SourceKitchenOrderID != nil && *o.SourceKitchenOrderID == kitchenOrderID
}

// AcceptsHeuristicMatch reports whether a name and address lookup for
// kitchenOrderID may claim this delivery: it must not be en route yet and
// must be unbound or already bound to that same kitchen order.
func (o *Order) AcceptsHeuristicMatch(kitchenOrderID uuid.UUID) bool {
	if o.CurrentStatus().AtLeast(deliverystatus.Statuses.EnRoute) {
		return false
	}
	return o.SourceKitchenOrderID == nil || o.IsCorrelatedTo(kitchenOrderID)
}

// markReady moves the order to ready unless it is already further along.
func (o *Order) markReady(at time.Time) {
	if !o.CurrentStatus().AtLeast(deliverystatus.Statuses.Ready) {
		o.Status = deliverystatus.Statuses.Ready.Code()
	}
	if o.ReadyAt == nil {
		o.ReadyAt = &at
	}
}

// refreshFrom copies the payable content of the kitchen order.
func (o *Order) refreshFrom(ko *kitchen.Order) {
	o.Items = itemsFrom(ko.Items)
	o.Total = ko.Total
	if ko.PaymentMethod != "" {
		o.PaymentMethod = ko.PaymentMethod
	}
	if ko.Address != "" {
		o.Address = ko.Address
	}
	if ko.Phone != "" && o.Phone == "" {
		o.Phone = ko.Phone
	}
}

func itemsFrom(items []kitchen.Item) []Item {
	result := make([]Item, 0, len(items))
	for _, item := range items {
		result = append(result, Item{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Notes:     item.Notes,
		})
	}
	return result
}
