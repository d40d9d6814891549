package tables

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/tablestatus"
)

const (
	ZoneIndoor  = "indoor"
	ZoneOutdoor = "outdoor"
)

type Table struct {
	ID             uuid.UUID  `json:"id" bson:"_id"`
	RestaurantID   string     `json:"restaurantId" bson:"restaurant_id"`
	Number         string     `json:"number" bson:"number"`
	Zone           string     `json:"zone" bson:"zone"`
	LayoutPosition *Position  `json:"layoutPosition,omitempty" bson:"layout_position,omitempty"`
	Status         string     `json:"status" bson:"status"`
	CustomerName   string     `json:"customerName,omitempty" bson:"customer_name,omitempty"`
	Cart           []LineItem `json:"cart" bson:"cart"`
	Total          float64    `json:"total" bson:"total"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	CreatedBy      string     `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updated_at"`
	UpdatedBy      string     `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
}

// Position places a table on the floor-plan view.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

type LineItem struct {
	ProductName string  `json:"productName" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unit_price"`
	LineTotal   float64 `json:"lineTotal" bson:"line_total"`
	Notes       string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable() *Table {
	return &Table{
		ID:     apt.GenerateNewID(),
		Zone:   ZoneIndoor,
		Status: tablestatus.Statuses.Free.Code(),
		Cart:   []LineItem{},
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = apt.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	if t.Cart == nil {
		t.Cart = []LineItem{}
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

// AppendItems merges items into the cart and recomputes the total. Lines
// for the same product, unit price and notes are folded into one line.
func (t *Table) AppendItems(items []LineItem) {
	for _, item := range items {
		item = item.normalized()
		merged := false
		for i := range t.Cart {
			if t.Cart[i].sameLine(item) {
				t.Cart[i].Quantity += item.Quantity
				t.Cart[i].LineTotal += item.LineTotal
				merged = true
				break
			}
		}
		if !merged {
			t.Cart = append(t.Cart, item)
		}
	}
	t.RecomputeTotal()
}

// RecomputeTotal restores total == sum(cart[].lineTotal).
func (t *Table) RecomputeTotal() {
	var total float64
	for _, line := range t.Cart {
		total += line.LineTotal
	}
	t.Total = total
}

func (t *Table) SetStatus(status tablestatus.Status) {
	t.Status = status.Code()
	t.UpdatedAt = time.Now()
}

// Release frees the table and drops the running tab.
func (t *Table) Release() {
	t.Status = tablestatus.Statuses.Free.Code()
	t.CustomerName = ""
	t.Cart = []LineItem{}
	t.Total = 0
	t.UpdatedAt = time.Now()
}

func (t *Table) IsReleased() bool {
	return t.Status == tablestatus.Statuses.Free.Code() && len(t.Cart) == 0 && t.Total == 0 && t.CustomerName == ""
}

func (l LineItem) normalized() LineItem {
	if l.LineTotal == 0 && l.Quantity > 0 {
		l.LineTotal = float64(l.Quantity) * l.UnitPrice
	}
	return l
}

func (l LineItem) sameLine(other LineItem) bool {
	return l.ProductName == other.ProductName &&
		l.UnitPrice == other.UnitPrice &&
		l.Notes == other.Notes
}
