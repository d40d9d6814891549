package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/internal/delivery"
	"github.com/appetiteclub/comandas/internal/kitchen"
	"github.com/appetiteclub/comandas/internal/notification"
	"github.com/appetiteclub/comandas/internal/tables"
	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
	"github.com/appetiteclub/comandas/pkg/enums/tablestatus"
)

const DefaultStepTimeout = 3 * time.Second

type OrderQueue interface {
	Submit(ctx context.Context, in kitchen.SubmitInput) (*kitchen.Order, error)
	Transition(ctx context.Context, restaurantID string, id uuid.UUID, next kitchenstatus.Status, expectedVersion int) (*kitchen.Order, error)
	Remove(ctx context.Context, restaurantID string, id uuid.UUID) error
	ListReadyDeliveries(ctx context.Context) ([]*kitchen.Order, error)
}

type TableStore interface {
	ResolveByNumber(ctx context.Context, restaurantID, number string) (*tables.Table, error)
	SetStatus(ctx context.Context, restaurantID string, id uuid.UUID, status tablestatus.Status) (*tables.Table, error)
	AppendOrder(ctx context.Context, restaurantID string, id uuid.UUID, customerName string, items []tables.LineItem) (*tables.Table, error)
}

type DeliveryHandoff interface {
	Upsert(ctx context.Context, order *kitchen.Order) (*delivery.UpsertResult, error)
	HasCorrelated(ctx context.Context, order *kitchen.Order) (bool, error)
}

type NotificationEmitter interface {
	Emit(ctx context.Context, ev *notification.Event) (*notification.Event, error)
}

type Option func(*Coordinator)

func WithStepTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.stepTimeout = d
		}
	}
}

// Coordinator applies kitchen order changes and propagates them to tables,
// deliveries and notifications. Only the kitchen write is authoritative;
// derived writes are attempted once each and never rolled back.
type Coordinator struct {
	queue         OrderQueue
	tables        TableStore
	deliveries    DeliveryHandoff
	notifications NotificationEmitter
	logger        apt.Logger
	stepTimeout   time.Duration
}

func New(queue OrderQueue, tableStore TableStore, deliveries DeliveryHandoff, notifications NotificationEmitter, logger apt.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	c := &Coordinator{
		queue:         queue,
		tables:        tableStore,
		deliveries:    deliveries,
		notifications: notifications,
		logger:        logger.With("component", "coordinator"),
		stepTimeout:   DefaultStepTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplyKitchenStatusChange returns the updated order once the kitchen write
// succeeds, whatever happened to the derived writes.
func (c *Coordinator) ApplyKitchenStatusChange(ctx context.Context, restaurantID string, id uuid.UUID, status kitchenstatus.Status, version int) (*kitchen.Order, error) {
	result, err := c.Apply(ctx, restaurantID, id, status, version)
	if err != nil {
		return nil, err
	}
	return result.Order, nil
}

// Apply transitions the order and runs the fan-out for the new status.
func (c *Coordinator) Apply(ctx context.Context, restaurantID string, id uuid.UUID, status kitchenstatus.Status, version int) (*Result, error) {
	order, err := c.queue.Transition(ctx, restaurantID, id, status, version)
	if err != nil {
		return nil, err
	}

	result := &Result{Order: order}

	switch status.Code() {
	case kitchenstatus.Statuses.Ready.Code():
		if order.Destination.IsDelivery() {
			result.FanOut = append(result.FanOut, c.run(ctx, order, StepDeliveryUpsert, c.upsertDelivery))
		} else if _, ok := order.Destination.TableNumber(); ok {
			result.FanOut = append(result.FanOut, c.run(ctx, order, StepTableOccupy, c.occupyTable))
		}
		result.FanOut = append(result.FanOut, c.run(ctx, order, StepNotificationEmit, c.emitReady))

	case kitchenstatus.Statuses.Fulfilled.Code():
		result.FanOut = append(result.FanOut, c.run(ctx, order, StepOrderRemove, c.removeOrder))
	}

	if !result.Synchronized() {
		c.logger.Info("kitchen order partially synchronized", "order_id", order.ID.String(),
			"restaurant_id", order.RestaurantID, "status", order.Status, "failed_steps", len(result.Failures()))
	}
	return result, nil
}

// Submit opens a kitchen order and adds its items to the table tab.
func (c *Coordinator) Submit(ctx context.Context, in kitchen.SubmitInput) (*kitchen.Order, error) {
	result, err := c.SubmitOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	return result.Order, nil
}

// SubmitOrder is Submit with the fan-out outcome. The table status is left
// alone; tables become occupied when the kitchen marks the order ready.
func (c *Coordinator) SubmitOrder(ctx context.Context, in kitchen.SubmitInput) (*Result, error) {
	order, err := c.queue.Submit(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &Result{Order: order}
	if _, ok := order.Destination.TableNumber(); ok {
		result.FanOut = append(result.FanOut, c.run(ctx, order, StepTableAppend, c.appendToTable))
	}
	return result, nil
}

type stepFunc func(ctx context.Context, order *kitchen.Order) FanOutResult

func (c *Coordinator) run(ctx context.Context, order *kitchen.Order, step string, fn stepFunc) FanOutResult {
	stepCtx, cancel := context.WithTimeout(ctx, c.stepTimeout)
	defer cancel()

	res := fn(stepCtx, order)
	res.Step = step

	log := c.logger.With("step", step, "order_id", order.ID.String(), "restaurant_id", order.RestaurantID)
	switch {
	case res.Err != nil:
		log.Error("fan-out step failed", "error", res.Err, "detail", res.Detail)
	case res.Skipped:
		log.Info("fan-out step skipped", "detail", res.Detail)
	default:
		log.Debug("fan-out step applied", "detail", res.Detail)
	}
	return res
}

func (c *Coordinator) upsertDelivery(ctx context.Context, order *kitchen.Order) FanOutResult {
	if c.deliveries == nil {
		return FanOutResult{Skipped: true, Detail: "delivery handoff not configured"}
	}
	upserted, err := c.deliveries.Upsert(ctx, order)
	if err != nil {
		return FanOutResult{Err: err}
	}
	return FanOutResult{Detail: fmt.Sprintf("delivery %s via %s", upserted.Order.ID, upserted.Tier)}
}

func (c *Coordinator) occupyTable(ctx context.Context, order *kitchen.Order) FanOutResult {
	table, res := c.resolveTable(ctx, order)
	if table == nil {
		return res
	}
	if _, err := c.tables.SetStatus(ctx, order.RestaurantID, table.ID, tablestatus.Statuses.Occupied); err != nil {
		return FanOutResult{Err: err, Detail: "table " + table.Number}
	}
	return FanOutResult{Detail: "table " + table.Number + " occupied"}
}

func (c *Coordinator) appendToTable(ctx context.Context, order *kitchen.Order) FanOutResult {
	table, res := c.resolveTable(ctx, order)
	if table == nil {
		return res
	}

	items := make([]tables.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, tables.LineItem{
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			Notes:       item.Notes,
		})
	}

	if _, err := c.tables.AppendOrder(ctx, order.RestaurantID, table.ID, order.CustomerName, items); err != nil {
		return FanOutResult{Err: err, Detail: "table " + table.Number}
	}
	return FanOutResult{Detail: "appended to table " + table.Number}
}

// resolveTable joins the order destination to a stored table. A nil table
// comes with the result to report.
func (c *Coordinator) resolveTable(ctx context.Context, order *kitchen.Order) (*tables.Table, FanOutResult) {
	number, _ := order.Destination.TableNumber()
	if c.tables == nil {
		return nil, FanOutResult{Skipped: true, Detail: "table store not configured"}
	}
	table, err := c.tables.ResolveByNumber(ctx, order.RestaurantID, number)
	if err != nil {
		return nil, FanOutResult{Err: err, Detail: "resolve table " + number}
	}
	if table == nil {
		return nil, FanOutResult{Skipped: true, Detail: "no table numbered " + number}
	}
	return table, FanOutResult{}
}

func (c *Coordinator) emitReady(ctx context.Context, order *kitchen.Order) FanOutResult {
	if c.notifications == nil {
		return FanOutResult{Skipped: true, Detail: "notifications not configured"}
	}

	items := make([]notification.Item, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, notification.Item{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
			Notes:     item.Notes,
		})
	}

	ev, err := c.notifications.Emit(ctx, &notification.Event{
		RestaurantID: order.RestaurantID,
		Type:         notification.TypeOrderReady,
		OrderID:      order.ID,
		Destination:  order.Destination.String(),
		CustomerName: order.CustomerName,
		Items:        items,
		Total:        order.Total,
	})
	if err != nil {
		return FanOutResult{Err: err}
	}
	return FanOutResult{Detail: "notification " + ev.ID.String()}
}

func (c *Coordinator) removeOrder(ctx context.Context, order *kitchen.Order) FanOutResult {
	if err := c.queue.Remove(ctx, order.RestaurantID, order.ID); err != nil {
		return FanOutResult{Err: err}
	}
	return FanOutResult{Detail: "removed"}
}
