package delivery

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MockOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order

	CreateFunc               func(ctx context.Context, order *Order) error
	FindLatestByCustomerFunc func(ctx context.Context, restaurantID, customerName, address string, kitchenOrderID uuid.UUID) (*Order, error)
	SaveFunc                 func(ctx context.Context, order *Order) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{orders: make(map[uuid.UUID]*Order)}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.SourceKitchenOrderID != nil {
		for _, o := range m.orders {
			if o.RestaurantID == order.RestaurantID && o.IsCorrelatedTo(*order.SourceKitchenOrderID) {
				return ErrDuplicateSource
			}
		}
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok && o.RestaurantID == restaurantID {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (m *MockOrderRepo) FindBySourceKitchenOrderID(ctx context.Context, restaurantID string, kitchenOrderID uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && o.IsCorrelatedTo(kitchenOrderID) {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepo) FindLatestByCustomer(ctx context.Context, restaurantID, customerName, address string, kitchenOrderID uuid.UUID) (*Order, error) {
	if m.FindLatestByCustomerFunc != nil {
		return m.FindLatestByCustomerFunc(ctx, restaurantID, customerName, address, kitchenOrderID)
	}
	matches := m.filter(func(o *Order) bool {
		return o.RestaurantID == restaurantID && o.CustomerName == customerName && o.Address == address &&
			o.AcceptsHeuristicMatch(kitchenOrderID)
	})
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (m *MockOrderRepo) List(ctx context.Context, restaurantID, status string) ([]*Order, error) {
	return m.filter(func(o *Order) bool {
		return o.RestaurantID == restaurantID && (status == "" || o.Status == status)
	}), nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return errors.New("delivery order not found")
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) Add(o *Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = cloneOrder(o)
}

func (m *MockOrderRepo) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

func (m *MockOrderRepo) filter(match func(*Order) bool) []*Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if match(o) {
			result = append(result, cloneOrder(o))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = append([]Item(nil), o.Items...)
	return &c
}
