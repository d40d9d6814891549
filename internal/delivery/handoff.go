package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/internal/kitchen"
	"github.com/appetiteclub/comandas/pkg/enums/deliverystatus"
)

var (
	ErrNotFound          = errors.New("delivery order not found")
	ErrInvalidOrder      = errors.New("invalid delivery order")
	ErrIllegalTransition = errors.New("illegal delivery status transition")
	ErrDuplicateSource   = errors.New("delivery already exists for kitchen order")
)

// CreateInput is a delivery entered up front, before the kitchen is done.
type CreateInput struct {
	RestaurantID         string
	CustomerName         string
	Address              string
	Phone                string
	Items                []Item
	Total                float64
	PaymentMethod        string
	SourceKitchenOrderID *uuid.UUID
}

// UpsertResult reports what Upsert did and which tier matched.
type UpsertResult struct {
	Order   *Order
	Tier    Tier
	Created bool
}

type HandoffOption func(*Handoff)

// WithHeuristic turns the name and address tier on or off.
func WithHeuristic(enabled bool) HandoffOption {
	return func(h *Handoff) {
		h.heuristic = enabled
	}
}

// WithStrategies replaces the correlation tiers.
func WithStrategies(strategies ...Strategy) HandoffOption {
	return func(h *Handoff) {
		h.strategies = strategies
	}
}

// Handoff owns the delivery aggregate and its correlation to kitchen
// orders.
type Handoff struct {
	repo       OrderRepo
	logger     apt.Logger
	strategies []Strategy
	heuristic  bool
}

func NewHandoff(repo OrderRepo, logger apt.Logger, opts ...HandoffOption) *Handoff {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	h := &Handoff{
		repo:       repo,
		logger:     logger,
		strategies: []Strategy{ByID(), ByNameAddress()},
		heuristic:  true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FindCorrelated runs the correlation tiers in order.
func (h *Handoff) FindCorrelated(ctx context.Context, order *kitchen.Order) (Match, error) {
	for _, strategy := range h.strategies {
		if strategy.Tier() == TierNameAddress && !h.heuristic {
			continue
		}
		found, err := strategy.Find(ctx, h.repo, order)
		if err != nil {
			return Match{Tier: TierNone}, fmt.Errorf("correlate by %s: %w", strategy.Tier(), err)
		}
		if found != nil {
			return Match{Order: found, Tier: strategy.Tier()}, nil
		}
	}
	return Match{Tier: TierNone}, nil
}

// Upsert projects a ready kitchen order onto the delivery dashboard,
// updating the correlated delivery or creating one keyed by the kitchen
// order id.
func (h *Handoff) Upsert(ctx context.Context, order *kitchen.Order) (*UpsertResult, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: kitchen order is required", ErrInvalidOrder)
	}

	match, err := h.FindCorrelated(ctx, order)
	if err != nil {
		return nil, err
	}

	if match.Order == nil {
		created, err := h.createReady(ctx, order)
		if err == nil {
			h.logger.Info("delivery created from kitchen order", "order_id", order.ID.String(),
				"restaurant_id", order.RestaurantID, "tier", string(TierNone), "delivery_id", created.ID.String())
			return &UpsertResult{Order: created, Tier: TierNone, Created: true}, nil
		}
		if !errors.Is(err, ErrDuplicateSource) {
			return nil, err
		}
		// a concurrent upsert for the same kitchen order created it first
		existing, findErr := h.repo.FindBySourceKitchenOrderID(ctx, order.RestaurantID, order.ID)
		if findErr != nil || existing == nil {
			return nil, err
		}
		match = Match{Order: existing, Tier: TierSourceID}
	}

	log := h.logger.With("order_id", order.ID.String(), "restaurant_id", order.RestaurantID, "tier", string(match.Tier))

	delivery := match.Order
	delivery.refreshFrom(order)
	delivery.markReady(time.Now().UTC())
	if delivery.SourceKitchenOrderID == nil {
		id := order.ID
		delivery.SourceKitchenOrderID = &id
	}
	delivery.BeforeUpdate()

	if err := h.repo.Save(ctx, delivery); err != nil {
		return nil, fmt.Errorf("cannot save delivery order: %w", err)
	}

	log.Info("delivery correlated with kitchen order", "delivery_id", delivery.ID.String())
	return &UpsertResult{Order: delivery, Tier: match.Tier}, nil
}

func (h *Handoff) createReady(ctx context.Context, order *kitchen.Order) (*Order, error) {
	delivery := NewOrder()
	delivery.RestaurantID = order.RestaurantID
	delivery.CustomerName = order.CustomerName
	delivery.Address = order.Address
	delivery.Phone = order.Phone
	delivery.refreshFrom(order)
	id := order.ID
	delivery.SourceKitchenOrderID = &id
	delivery.BeforeCreate()
	delivery.markReady(delivery.CreatedAt)

	if err := h.repo.Create(ctx, delivery); err != nil {
		if errors.Is(err, ErrDuplicateSource) {
			return nil, err
		}
		return nil, fmt.Errorf("cannot create delivery order: %w", err)
	}
	return delivery, nil
}

// Create registers a delivery entered directly by staff.
func (h *Handoff) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if strings.TrimSpace(in.RestaurantID) == "" {
		return nil, fmt.Errorf("%w: restaurantId is required", ErrInvalidOrder)
	}
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, fmt.Errorf("%w: customerName and address are required", ErrInvalidOrder)
	}

	delivery := NewOrder()
	delivery.RestaurantID = strings.TrimSpace(in.RestaurantID)
	delivery.CustomerName = strings.TrimSpace(in.CustomerName)
	delivery.Address = strings.TrimSpace(in.Address)
	delivery.Phone = in.Phone
	delivery.PaymentMethod = in.PaymentMethod
	delivery.SourceKitchenOrderID = in.SourceKitchenOrderID
	for _, item := range in.Items {
		if item.LineTotal == 0 && item.Quantity > 0 {
			item.LineTotal = float64(item.Quantity) * item.UnitPrice
		}
		delivery.Items = append(delivery.Items, item)
		if in.Total == 0 {
			delivery.Total += item.LineTotal
		}
	}
	if in.Total != 0 {
		delivery.Total = in.Total
	}
	delivery.BeforeCreate()

	if err := h.repo.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("cannot create delivery order: %w", err)
	}
	return delivery, nil
}

func (h *Handoff) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error) {
	delivery, err := h.repo.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get delivery order: %w", err)
	}
	if delivery == nil {
		return nil, ErrNotFound
	}
	return delivery, nil
}

// HasCorrelated reports whether a delivery already carries the kitchen
// order id.
func (h *Handoff) HasCorrelated(ctx context.Context, order *kitchen.Order) (bool, error) {
	delivery, err := h.repo.FindBySourceKitchenOrderID(ctx, order.RestaurantID, order.ID)
	if err != nil {
		return false, err
	}
	return delivery != nil, nil
}

func (h *Handoff) List(ctx context.Context, restaurantID string, status *deliverystatus.Status) ([]*Order, error) {
	code := ""
	if status != nil {
		code = status.Code()
	}
	orders, err := h.repo.List(ctx, restaurantID, code)
	if err != nil {
		return nil, fmt.Errorf("cannot list delivery orders: %w", err)
	}
	return orders, nil
}

// Advance moves a delivery forward along the rider workflow.
func (h *Handoff) Advance(ctx context.Context, restaurantID string, id uuid.UUID, next deliverystatus.Status) (*Order, error) {
	delivery, err := h.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	current := delivery.CurrentStatus()
	if !current.CanAdvanceTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Code(), next.Code())
	}

	now := time.Now().UTC()
	delivery.Status = next.Code()
	if next.AtLeast(deliverystatus.Statuses.Ready) && delivery.ReadyAt == nil {
		delivery.ReadyAt = &now
	}
	if next.Code() == deliverystatus.Statuses.Delivered.Code() {
		delivery.DeliveredAt = &now
	}
	delivery.BeforeUpdate()

	if err := h.repo.Save(ctx, delivery); err != nil {
		return nil, fmt.Errorf("cannot save delivery order: %w", err)
	}

	h.logger.Info("delivery advanced", "delivery_id", delivery.ID.String(), "status", delivery.Status)
	return delivery, nil
}
