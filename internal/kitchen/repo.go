package kitchen

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepo persists kitchen orders. Lookups return nil, nil when nothing
// matches. Archived orders are excluded from every read.
type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error)
	// List returns orders newest first. An empty status returns all of them.
	List(ctx context.Context, restaurantID, status string) ([]*Order, error)
	// ListByStatusAll lists orders in status across every restaurant.
	ListByStatusAll(ctx context.Context, status string) ([]*Order, error)
	// Update replaces the stored order. When expectedVersion is positive the
	// write only applies if the stored version still matches. The returned
	// bool reports whether a document was written.
	Update(ctx context.Context, order *Order, expectedVersion int) (bool, error)
	Delete(ctx context.Context, restaurantID string, id uuid.UUID) (bool, error)
}
