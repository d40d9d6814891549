package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
)

// Reconciler periodically repairs ready DELIVERY kitchen orders whose
// delivery projection was lost to a failed fan-out step. It never writes the
// kitchen order itself.
type Reconciler struct {
	queue      OrderQueue
	deliveries DeliveryHandoff
	interval   time.Duration
	logger     apt.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReconciler returns a reconciler. A non-positive interval disables the
// background loop; Sweep still works on demand.
func NewReconciler(queue OrderQueue, deliveries DeliveryHandoff, interval time.Duration, logger apt.Logger) *Reconciler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Reconciler{
		queue:      queue,
		deliveries: deliveries,
		interval:   interval,
		logger:     logger.With("component", "reconciler"),
	}
}

func (r *Reconciler) Start(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Info("delivery reconciliation disabled")
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(loopCtx, r.done)
	r.logger.Info("delivery reconciliation started", "interval", r.interval.String())
	return nil
}

func (r *Reconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	r.logger.Info("delivery reconciliation stopped")
	return nil
}

func (r *Reconciler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.logger.Error("reconciliation sweep failed", "error", err)
			}
		}
	}
}

// Sweep upserts the delivery for every ready DELIVERY order that has no
// delivery correlated by id. It returns how many were repaired.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	orders, err := r.queue.ListReadyDeliveries(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, order := range orders {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}

		log := r.logger.With("order_id", order.ID.String(), "restaurant_id", order.RestaurantID)

		found, err := r.deliveries.HasCorrelated(ctx, order)
		if err != nil {
			log.Error("cannot check delivery correlation", "error", err)
			continue
		}
		if found {
			continue
		}

		result, err := r.deliveries.Upsert(ctx, order)
		if err != nil {
			log.Error("cannot repair delivery", "error", err)
			continue
		}
		repaired++
		log.Info("delivery repaired", "delivery_id", result.Order.ID.String(), "tier", string(result.Tier))
	}

	return repaired, nil
}
