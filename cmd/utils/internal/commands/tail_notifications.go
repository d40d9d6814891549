package commands

import (
	"context"
	"encoding/json"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/comandas/pkg"
	"github.com/appetiteclub/comandas/pkg/event"
)

// TailNotifications logs every order-ready event published on NATS until
// ctx is cancelled.
func TailNotifications(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	sub, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	err = sub.Subscribe(ctx, event.NotificationsTopic, func(ctx context.Context, msg []byte) error {
		var ev event.OrderReadyEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			logger.Info("Skipping malformed notification", "error", err)
			return nil
		}
		logger.Info("Order ready",
			"restaurant_id", ev.RestaurantID,
			"order_id", ev.OrderID,
			"destination", ev.Destination,
			"customer", ev.CustomerName,
			"items", len(ev.Items),
			"total", ev.Total,
		)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Tailing notifications", "topic", event.NotificationsTopic)
	<-ctx.Done()
	return nil
}
