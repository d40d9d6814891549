package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/event"
)

var (
	ErrNotFound     = errors.New("notification not found")
	ErrInvalidEvent = errors.New("invalid notification")
)

// Emitter records notifications and mirrors them on the event bus. The bus
// publish is fire and forget.
type Emitter struct {
	repo      EventRepo
	publisher events.Publisher
	logger    apt.Logger
}

func NewEmitter(repo EventRepo, publisher events.Publisher, logger apt.Logger) *Emitter {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Emitter{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (e *Emitter) Emit(ctx context.Context, ev *Event) (*Event, error) {
	if ev == nil || strings.TrimSpace(ev.RestaurantID) == "" || ev.Type == "" {
		return nil, fmt.Errorf("%w: restaurant and type are required", ErrInvalidEvent)
	}

	ev.Read = false
	ev.ReadAt = nil
	ev.BeforeCreate()

	if err := e.repo.Append(ctx, ev); err != nil {
		return nil, fmt.Errorf("cannot append notification: %w", err)
	}

	e.publish(ctx, ev)
	return ev, nil
}

// MarkRead flags the entry as read. Marking an already read entry keeps
// the original read time.
func (e *Emitter) MarkRead(ctx context.Context, restaurantID string, id uuid.UUID) (*Event, error) {
	ev, err := e.repo.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get notification: %w", err)
	}
	if ev == nil {
		return nil, ErrNotFound
	}
	if ev.Read {
		return ev, nil
	}

	now := time.Now().UTC()
	if err := e.repo.MarkRead(ctx, restaurantID, id, now); err != nil {
		return nil, fmt.Errorf("cannot mark notification read: %w", err)
	}

	ev.Read = true
	ev.ReadAt = &now
	return ev, nil
}

func (e *Emitter) List(ctx context.Context, restaurantID string, unreadOnly bool) ([]*Event, error) {
	list, err := e.repo.List(ctx, restaurantID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("cannot list notifications: %w", err)
	}
	return list, nil
}

func (e *Emitter) publish(ctx context.Context, ev *Event) {
	if e.publisher == nil {
		return
	}

	items := make([]event.NotificationItem, 0, len(ev.Items))
	for _, item := range ev.Items {
		items = append(items, event.NotificationItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
			Notes:     item.Notes,
		})
	}

	payload, err := json.Marshal(event.OrderReadyEvent{
		EventType:      ev.Type,
		NotificationID: ev.ID.String(),
		RestaurantID:   ev.RestaurantID,
		OrderID:        ev.OrderID.String(),
		Destination:    ev.Destination,
		CustomerName:   ev.CustomerName,
		Items:          items,
		Total:          ev.Total,
		OccurredAt:     ev.CreatedAt,
	})
	if err != nil {
		e.logger.Error("cannot marshal notification", "error", err, "notification_id", ev.ID.String())
		return
	}

	if err := e.publisher.Publish(ctx, event.NotificationsTopic, payload); err != nil {
		e.logger.Error("cannot publish notification", "error", err, "notification_id", ev.ID.String())
	}
}
