package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"

	"github.com/appetiteclub/comandas/internal/kitchen"
	"github.com/appetiteclub/comandas/internal/mongo"
	"github.com/appetiteclub/comandas/internal/tables"
)

const (
	demoApplication  = "comandas-demo"
	demoRestaurantID = "resto-1"
)

// demoOrders covers one order per destination kind.
var demoOrders = []struct {
	id    string
	input kitchen.SubmitInput
}{
	{
		id: "2026-10-01_demo_order_table_1",
		input: kitchen.SubmitInput{
			Destination:  kitchen.Destination("1"),
			CustomerName: "Mesa uno",
			Items: []kitchen.Item{
				{Name: "Milanesa", Quantity: 2, UnitPrice: 9.5},
				{Name: "Agua", Quantity: 2, UnitPrice: 2},
			},
		},
	},
	{
		id: "2026-10-01_demo_order_delivery",
		input: kitchen.SubmitInput{
			Destination:   kitchen.DestinationDelivery,
			CustomerName:  "Lucia",
			Address:       "Calle 5 123",
			Phone:         "555-0101",
			PaymentMethod: "cash",
			Items: []kitchen.Item{
				{Name: "Pizza muzzarella", Quantity: 1, UnitPrice: 12},
			},
		},
	},
	{
		id: "2026-10-01_demo_order_takeaway",
		input: kitchen.SubmitInput{
			Destination:  kitchen.DestinationTakeaway,
			CustomerName: "Tomas",
			Items: []kitchen.Item{
				{Name: "Empanada", Quantity: 6, UnitPrice: 1.5, Notes: "carne"},
			},
		},
	},
}

// SeedDemo ensures the floor plan from the seed file and submits a few
// pending kitchen orders. Reruns skip seeds that were already applied.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	baseRepo := mongo.NewBaseRepo(config, logger)
	if err := baseRepo.Start(ctx); err != nil {
		return err
	}
	defer baseRepo.Stop(context.Background())

	db := baseRepo.GetDatabase()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	seedDir := config.GetStringOrDef("seed.dir", ".")
	if _, err := os.Stat(filepath.Join(seedDir, "seed.json")); err != nil {
		return fmt.Errorf("seed file: %w", err)
	}
	seedFS := os.DirFS(seedDir)

	if err := tables.ApplyTableSeeds(ctx, mongo.NewTableRepo(db), db, seedFS, logger); err != nil {
		return fmt.Errorf("apply table seeds: %w", err)
	}

	queue := kitchen.NewQueue(mongo.NewKitchenOrderRepo(db), nil, logger)

	defs := make([]seed.Seed, 0, len(demoOrders))
	for _, demo := range demoOrders {
		input := demo.input
		input.RestaurantID = demoRestaurantID
		defs = append(defs, seed.Seed{
			ID:          demo.id,
			Description: fmt.Sprintf("Submit demo kitchen order for %s", input.Destination),
			Run: func(ctx context.Context) error {
				order, err := queue.Submit(ctx, input)
				if err != nil {
					return err
				}
				logger.Info("Demo kitchen order submitted", "order_id", order.ID.String(), "destination", order.Destination.String())
				return nil
			},
		})
	}

	return seed.Apply(ctx, seed.NewMongoTracker(db), defs, demoApplication)
}
