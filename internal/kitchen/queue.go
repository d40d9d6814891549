package kitchen

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

	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
	"github.com/appetiteclub/comandas/pkg/event"
)

var (
	ErrNotFound          = errors.New("kitchen order not found")
	ErrEmptyOrder        = errors.New("kitchen order has no items")
	ErrInvalidOrder      = errors.New("invalid kitchen order")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrVersionConflict   = errors.New("kitchen order version conflict")
	ErrInvalidStatus     = errors.New("invalid kitchen order status")
)

// SubmitInput carries everything needed to open a new kitchen order.
type SubmitInput struct {
	RestaurantID  string
	Destination   Destination
	Items         []Item
	Total         float64
	CustomerName  string
	Notes         string
	PaymentMethod string
	Address       string
	Phone         string
	IsAdditional  bool
	ParentOrderID *uuid.UUID
}

type QueueOption func(*Queue)

// WithArchival makes Remove flag orders as archived instead of deleting them.
func WithArchival(enabled bool) QueueOption {
	return func(q *Queue) {
		q.archive = enabled
	}
}

type Queue struct {
	repo      OrderRepo
	publisher events.Publisher
	logger    apt.Logger
	archive   bool
}

func NewQueue(repo OrderRepo, publisher events.Publisher, logger apt.Logger, opts ...QueueOption) *Queue {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	q := &Queue{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Submit opens a pending order. Beyond non-empty items only the scoping
// fields are checked.
func (q *Queue) Submit(ctx context.Context, in SubmitInput) (*Order, error) {
	if strings.TrimSpace(in.RestaurantID) == "" {
		return nil, fmt.Errorf("%w: restaurantId is required", ErrInvalidOrder)
	}
	if in.Destination == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrInvalidOrder)
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := NewOrder()
	order.RestaurantID = in.RestaurantID
	order.Destination = in.Destination
	order.CustomerName = strings.TrimSpace(in.CustomerName)
	order.Notes = in.Notes
	order.PaymentMethod = in.PaymentMethod
	order.Address = strings.TrimSpace(in.Address)
	order.Phone = in.Phone
	order.IsAdditional = in.IsAdditional
	order.ParentOrderID = in.ParentOrderID

	order.Items = make([]Item, 0, len(in.Items))
	for _, item := range in.Items {
		order.Items = append(order.Items, item.normalized())
	}
	order.Total = in.Total
	if order.Total == 0 {
		order.Total = order.ItemsTotal()
	}
	order.BeforeCreate()

	if err := q.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("cannot create kitchen order: %w", err)
	}

	q.publish(ctx, event.KitchenOrderSubmittedEvent{
		KitchenOrderEventMetadata: q.metadata(order, event.EventKitchenOrderSubmitted),
		CustomerName:              order.CustomerName,
		ItemCount:                 len(order.Items),
		Total:                     order.Total,
		IsAdditional:              order.IsAdditional,
	})

	q.logger.Info("kitchen order submitted", "order_id", order.ID.String(), "restaurant_id", order.RestaurantID, "destination", order.Destination.String())
	return order, nil
}

func (q *Queue) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error) {
	order, err := q.repo.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get kitchen order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListByStatus returns a newest-first snapshot. A nil status lists all.
func (q *Queue) ListByStatus(ctx context.Context, restaurantID string, status *kitchenstatus.Status) ([]*Order, error) {
	code := ""
	if status != nil {
		code = status.Code()
	}
	orders, err := q.repo.List(ctx, restaurantID, code)
	if err != nil {
		return nil, fmt.Errorf("cannot list kitchen orders: %w", err)
	}
	return orders, nil
}

// ListReadyDeliveries lists ready DELIVERY orders of every restaurant.
func (q *Queue) ListReadyDeliveries(ctx context.Context) ([]*Order, error) {
	orders, err := q.repo.ListByStatusAll(ctx, kitchenstatus.Statuses.Ready.Code())
	if err != nil {
		return nil, fmt.Errorf("cannot list ready kitchen orders: %w", err)
	}

	var deliveries []*Order
	for _, order := range orders {
		if order.Destination.IsDelivery() {
			deliveries = append(deliveries, order)
		}
	}
	return deliveries, nil
}

// Transition moves the order to next. Backward moves fail with
// ErrIllegalTransition and same-state writes return the order untouched.
// A positive expectedVersion makes the write conditional.
func (q *Queue) Transition(ctx context.Context, restaurantID string, id uuid.UUID, next kitchenstatus.Status, expectedVersion int) (*Order, error) {
	if next.IsZero() {
		return nil, ErrInvalidStatus
	}

	order, err := q.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	if expectedVersion > 0 && order.Version != expectedVersion {
		return nil, fmt.Errorf("%w: expected %d, found %d", ErrVersionConflict, expectedVersion, order.Version)
	}

	current := order.CurrentStatus()
	if !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Code(), next.Code())
	}
	if current.Code() == next.Code() {
		return order, nil
	}

	order.Status = next.Code()
	order.Version++
	order.BeforeUpdate()
	if next.Code() == kitchenstatus.Statuses.Ready.Code() {
		readyAt := order.UpdatedAt
		order.ReadyAt = &readyAt
	}

	written, err := q.repo.Update(ctx, order, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("cannot update kitchen order: %w", err)
	}
	if !written {
		if expectedVersion > 0 {
			return nil, ErrVersionConflict
		}
		return nil, ErrNotFound
	}

	q.publish(ctx, event.KitchenOrderStatusChangedEvent{
		KitchenOrderEventMetadata: q.metadata(order, event.EventKitchenOrderStatusChanged),
		NewStatus:                 next.Code(),
		PreviousStatus:            current.Code(),
		Version:                   order.Version,
	})

	return order, nil
}

// Remove takes the order out of the active set, deleting it or archiving it
// depending on configuration.
func (q *Queue) Remove(ctx context.Context, restaurantID string, id uuid.UUID) error {
	if q.archive {
		order, err := q.Get(ctx, restaurantID, id)
		if err != nil {
			return err
		}
		order.Archived = true
		order.BeforeUpdate()

		written, err := q.repo.Update(ctx, order, 0)
		if err != nil {
			return fmt.Errorf("cannot archive kitchen order: %w", err)
		}
		if !written {
			return ErrNotFound
		}
		q.publishRemoved(ctx, order)
		return nil
	}

	order, _ := q.repo.Get(ctx, restaurantID, id)

	deleted, err := q.repo.Delete(ctx, restaurantID, id)
	if err != nil {
		return fmt.Errorf("cannot delete kitchen order: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	if order != nil {
		q.publishRemoved(ctx, order)
	}
	return nil
}

func (q *Queue) publishRemoved(ctx context.Context, order *Order) {
	q.publish(ctx, event.KitchenOrderStatusChangedEvent{
		KitchenOrderEventMetadata: q.metadata(order, event.EventKitchenOrderRemoved),
		NewStatus:                 order.Status,
		PreviousStatus:            order.Status,
		Version:                   order.Version,
	})
}

func (q *Queue) metadata(order *Order, eventType string) event.KitchenOrderEventMetadata {
	return event.KitchenOrderEventMetadata{
		EventType:    eventType,
		OccurredAt:   time.Now().UTC(),
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID.String(),
		Destination:  order.Destination.String(),
	}
}

func (q *Queue) publish(ctx context.Context, payload interface{}) {
	if q.publisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		q.logger.Error("cannot marshal kitchen order event", "error", err)
		return
	}

	if err := q.publisher.Publish(ctx, event.KitchenOrdersTopic, data); err != nil {
		q.logger.Error("cannot publish kitchen order event", "error", err)
	}
}
