package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventRepo is the notification log. Entries are never rewritten beyond
// the read flag.
type EventRepo interface {
	Append(ctx context.Context, ev *Event) error
	Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Event, error)
	// List returns entries newest first.
	List(ctx context.Context, restaurantID string, unreadOnly bool) ([]*Event, error)
	MarkRead(ctx context.Context, restaurantID string, id uuid.UUID, at time.Time) error
}
