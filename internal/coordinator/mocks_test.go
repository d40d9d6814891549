package coordinator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/internal/delivery"
	"github.com/appetiteclub/comandas/internal/kitchen"
	"github.com/appetiteclub/comandas/internal/notification"
	"github.com/appetiteclub/comandas/internal/tables"
	"github.com/appetiteclub/comandas/pkg/enums/tablestatus"
)

type memKitchenRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*kitchen.Order
}

func newMemKitchenRepo() *memKitchenRepo {
	return &memKitchenRepo{orders: make(map[uuid.UUID]*kitchen.Order)}
}

func (m *memKitchenRepo) Create(ctx context.Context, o *kitchen.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *o
	m.orders[o.ID] = &c
	return nil
}

func (m *memKitchenRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*kitchen.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok && o.RestaurantID == restaurantID && !o.Archived {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (m *memKitchenRepo) List(ctx context.Context, restaurantID, status string) ([]*kitchen.Order, error) {
	return m.filter(func(o *kitchen.Order) bool {
		return o.RestaurantID == restaurantID && (status == "" || o.Status == status)
	}), nil
}

func (m *memKitchenRepo) ListByStatusAll(ctx context.Context, status string) ([]*kitchen.Order, error) {
	return m.filter(func(o *kitchen.Order) bool { return o.Status == status }), nil
}

func (m *memKitchenRepo) Update(ctx context.Context, o *kitchen.Order, expectedVersion int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[o.ID]
	if !ok || (expectedVersion > 0 && stored.Version != expectedVersion) {
		return false, nil
	}
	c := *o
	m.orders[o.ID] = &c
	return true, nil
}

func (m *memKitchenRepo) Delete(ctx context.Context, restaurantID string, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok && o.RestaurantID == restaurantID {
		delete(m.orders, id)
		return true, nil
	}
	return false, nil
}

func (m *memKitchenRepo) filter(match func(*kitchen.Order) bool) []*kitchen.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*kitchen.Order
	for _, o := range m.orders {
		if !o.Archived && match(o) {
			c := *o
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

type memTableRepo struct {
	mu     sync.Mutex
	tables map[uuid.UUID]*tables.Table
}

func newMemTableRepo() *memTableRepo {
	return &memTableRepo{tables: make(map[uuid.UUID]*tables.Table)}
}

func (m *memTableRepo) Create(ctx context.Context, t *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *t
	m.tables[t.ID] = &c
	return nil
}

func (m *memTableRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[id]; ok && t.RestaurantID == restaurantID {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (m *memTableRepo) GetByNumber(ctx context.Context, restaurantID, number string) (*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tables {
		if t.RestaurantID == restaurantID && t.Number == number {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memTableRepo) List(ctx context.Context, restaurantID string) ([]*tables.Table, error) {
	return m.ListByStatus(ctx, restaurantID, "")
}

func (m *memTableRepo) ListByStatus(ctx context.Context, restaurantID, status string) ([]*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*tables.Table
	for _, t := range m.tables {
		if t.RestaurantID == restaurantID && (status == "" || t.Status == status) {
			c := *t
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *memTableRepo) Save(ctx context.Context, t *tables.Table) error {
	return m.Create(ctx, t)
}

type memDeliveryRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*delivery.Order
}

func newMemDeliveryRepo() *memDeliveryRepo {
	return &memDeliveryRepo{orders: make(map[uuid.UUID]*delivery.Order)}
}

func (m *memDeliveryRepo) Create(ctx context.Context, o *delivery.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.SourceKitchenOrderID != nil {
		for _, existing := range m.orders {
			if existing.IsCorrelatedTo(*o.SourceKitchenOrderID) {
				return delivery.ErrDuplicateSource
			}
		}
	}
	c := *o
	m.orders[o.ID] = &c
	return nil
}

func (m *memDeliveryRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*delivery.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok && o.RestaurantID == restaurantID {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (m *memDeliveryRepo) FindBySourceKitchenOrderID(ctx context.Context, restaurantID string, kitchenOrderID uuid.UUID) (*delivery.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && o.IsCorrelatedTo(kitchenOrderID) {
			c := *o
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memDeliveryRepo) FindLatestByCustomer(ctx context.Context, restaurantID, customerName, address string, kitchenOrderID uuid.UUID) (*delivery.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *delivery.Order
	for _, o := range m.orders {
		if o.RestaurantID != restaurantID || o.CustomerName != customerName || o.Address != address {
			continue
		}
		if !o.AcceptsHeuristicMatch(kitchenOrderID) {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (m *memDeliveryRepo) List(ctx context.Context, restaurantID, status string) ([]*delivery.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*delivery.Order
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && (status == "" || o.Status == status) {
			c := *o
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *memDeliveryRepo) Save(ctx context.Context, o *delivery.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *o
	m.orders[o.ID] = &c
	return nil
}

type memEventRepo struct {
	mu     sync.Mutex
	events []*notification.Event
}

func (m *memEventRepo) Append(ctx context.Context, ev *notification.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *ev
	m.events = append(m.events, &c)
	return nil
}

func (m *memEventRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*notification.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id && ev.RestaurantID == restaurantID {
			c := *ev
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memEventRepo) List(ctx context.Context, restaurantID string, unreadOnly bool) ([]*notification.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*notification.Event
	for i := len(m.events) - 1; i >= 0; i-- {
		ev := m.events[i]
		if ev.RestaurantID == restaurantID && (!unreadOnly || !ev.Read) {
			c := *ev
			result = append(result, &c)
		}
	}
	return result, nil
}

func (m *memEventRepo) MarkRead(ctx context.Context, restaurantID string, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			ev.Read = true
			ev.ReadAt = &at
		}
	}
	return nil
}

// failingHandoff fails every upsert.
type failingHandoff struct {
	err error
}

func (f failingHandoff) Upsert(ctx context.Context, order *kitchen.Order) (*delivery.UpsertResult, error) {
	return nil, f.err
}

func (f failingHandoff) HasCorrelated(ctx context.Context, order *kitchen.Order) (bool, error) {
	return false, nil
}

// failingTables resolves every number but fails every write.
type failingTables struct {
	err error
}

func (f failingTables) ResolveByNumber(ctx context.Context, restaurantID, number string) (*tables.Table, error) {
	t := tables.NewTable()
	t.RestaurantID = restaurantID
	t.Number = number
	return t, nil
}

func (f failingTables) SetStatus(ctx context.Context, restaurantID string, id uuid.UUID, status tablestatus.Status) (*tables.Table, error) {
	return nil, f.err
}

func (f failingTables) AppendOrder(ctx context.Context, restaurantID string, id uuid.UUID, customerName string, items []tables.LineItem) (*tables.Table, error) {
	return nil, f.err
}

// blockingEmitter waits for the step deadline.
type blockingEmitter struct{}

func (blockingEmitter) Emit(ctx context.Context, ev *notification.Event) (*notification.Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
