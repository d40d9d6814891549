package delivery

import (
	"context"
	"strings"

	"github.com/appetiteclub/comandas/internal/kitchen"
)

// Tier names the correlation rule that matched a kitchen order to a
// delivery.
type Tier string

const (
	TierSourceID    Tier = "source_id"
	TierNameAddress Tier = "name_address"
	TierNone        Tier = "none"
)

// Strategy is one correlation rule. Strategies run in order and the first
// match wins.
type Strategy interface {
	Tier() Tier
	Find(ctx context.Context, repo OrderRepo, order *kitchen.Order) (*Order, error)
}

// Match is the outcome of a correlation lookup. Order is nil when no tier
// matched.
type Match struct {
	Order *Order
	Tier  Tier
}

type byID struct{}

// ByID matches on sourceKitchenOrderId.
func ByID() Strategy {
	return byID{}
}

func (byID) Tier() Tier {
	return TierSourceID
}

func (byID) Find(ctx context.Context, repo OrderRepo, order *kitchen.Order) (*Order, error) {
	return repo.FindBySourceKitchenOrderID(ctx, order.RestaurantID, order.ID)
}

type byNameAddress struct{}

// ByNameAddress matches the newest open, unbound delivery with the same
// customer name and address. It can misattribute when two open deliveries
// share both values.
func ByNameAddress() Strategy {
	return byNameAddress{}
}

func (byNameAddress) Tier() Tier {
	return TierNameAddress
}

func (byNameAddress) Find(ctx context.Context, repo OrderRepo, order *kitchen.Order) (*Order, error) {
	name := strings.TrimSpace(order.CustomerName)
	address := strings.TrimSpace(order.Address)
	if name == "" || address == "" {
		return nil, nil
	}
	found, err := repo.FindLatestByCustomer(ctx, order.RestaurantID, name, address, order.ID)
	if err != nil || found == nil {
		return nil, err
	}
	if !found.AcceptsHeuristicMatch(order.ID) {
		return nil, nil
	}
	return found, nil
}
