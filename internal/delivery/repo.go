package delivery

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepo persists delivery orders. Lookups return nil, nil when nothing
// matches. Create returns ErrDuplicateSource when another delivery already
// carries the same source kitchen order id.
type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error)
	FindBySourceKitchenOrderID(ctx context.Context, restaurantID string, kitchenOrderID uuid.UUID) (*Order, error)
	// FindLatestByCustomer returns the newest still open delivery for the
	// exact customer name and address pair. Candidates bound to another
	// kitchen order are skipped; see Order.AcceptsHeuristicMatch.
	FindLatestByCustomer(ctx context.Context, restaurantID, customerName, address string, kitchenOrderID uuid.UUID) (*Order, error)
	List(ctx context.Context, restaurantID, status string) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
}
