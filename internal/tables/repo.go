package tables

import (
	"context"

	"github.com/google/uuid"
)

// TableRepo is scoped by restaurant on every call. Lookups return nil, nil
// when nothing matches.
type TableRepo interface {
	Create(ctx context.Context, table *Table) error
	Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Table, error)
	GetByNumber(ctx context.Context, restaurantID, number string) (*Table, error)
	List(ctx context.Context, restaurantID string) ([]*Table, error)
	ListByStatus(ctx context.Context, restaurantID, status string) ([]*Table, error)
	Save(ctx context.Context, table *Table) error
}
