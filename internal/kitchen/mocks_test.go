package kitchen

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
)

// MockOrderRepo keeps orders in memory and mirrors the archived filter of
// the real repository.
type MockOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order

	CreateFunc func(ctx context.Context, order *Order) error
	ListFunc   func(ctx context.Context, restaurantID, status string) ([]*Order, error)
	UpdateFunc func(ctx context.Context, order *Order, expectedVersion int) (bool, error)
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
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok || o.RestaurantID != restaurantID || o.Archived {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (m *MockOrderRepo) List(ctx context.Context, restaurantID, status string) ([]*Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, restaurantID, status)
	}
	return m.filter(func(o *Order) bool {
		return o.RestaurantID == restaurantID && (status == "" || o.Status == status)
	}), nil
}

func (m *MockOrderRepo) ListByStatusAll(ctx context.Context, status string) ([]*Order, error) {
	return m.filter(func(o *Order) bool { return o.Status == status }), nil
}

func (m *MockOrderRepo) Update(ctx context.Context, order *Order, expectedVersion int) (bool, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, order, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok || stored.Archived {
		return false, nil
	}
	if expectedVersion > 0 && stored.Version != expectedVersion {
		return false, nil
	}
	m.orders[order.ID] = cloneOrder(order)
	return true, nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, restaurantID string, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.RestaurantID != restaurantID {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

// Raw returns the stored order including archived ones.
func (m *MockOrderRepo) Raw(id uuid.UUID) *Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		return cloneOrder(o)
	}
	return nil
}

func (m *MockOrderRepo) filter(match func(*Order) bool) []*Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if o.Archived || !match(o) {
			continue
		}
		result = append(result, cloneOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func cloneOrder(o *Order) *Order {
	c := *o
	c.Items = append([]Item(nil), o.Items...)
	return &c
}

type MockPublisher struct {
	mu          sync.Mutex
	Topics      []string
	Messages    [][]byte
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Topics = append(m.Topics, topic)
	m.Messages = append(m.Messages, msg)
	return nil
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}

// queueCoordinator drives the queue without any fan-out.
type queueCoordinator struct {
	queue *Queue
}

func (c queueCoordinator) Submit(ctx context.Context, in SubmitInput) (*Order, error) {
	return c.queue.Submit(ctx, in)
}

func (c queueCoordinator) ApplyKitchenStatusChange(ctx context.Context, restaurantID string, id uuid.UUID, status kitchenstatus.Status, version int) (*Order, error) {
	order, err := c.queue.Transition(ctx, restaurantID, id, status, version)
	if err != nil {
		return nil, err
	}
	if status.IsTerminal() {
		_ = c.queue.Remove(ctx, restaurantID, id)
	}
	return order, nil
}
