package tables

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MockTableRepo is an in-memory TableRepo for tests
type MockTableRepo struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*Table

	CreateFunc      func(ctx context.Context, table *Table) error
	GetByNumberFunc func(ctx context.Context, restaurantID, number string) (*Table, error)
	SaveFunc        func(ctx context.Context, table *Table) error
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *Table) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = clone(table)
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok || t.RestaurantID != restaurantID {
		return nil, nil
	}
	return clone(t), nil
}

func (m *MockTableRepo) GetByNumber(ctx context.Context, restaurantID, number string) (*Table, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, restaurantID, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tables {
		if t.RestaurantID == restaurantID && t.Number == number {
			return clone(t), nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) List(ctx context.Context, restaurantID string) ([]*Table, error) {
	return m.filter(restaurantID, ""), nil
}

func (m *MockTableRepo) ListByStatus(ctx context.Context, restaurantID, status string) ([]*Table, error) {
	return m.filter(restaurantID, status), nil
}

func (m *MockTableRepo) Save(ctx context.Context, table *Table) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table.ID]; !ok {
		return errors.New("table not found")
	}
	m.tables[table.ID] = clone(table)
	return nil
}

// AddTable seeds the repo directly
func (m *MockTableRepo) AddTable(t *Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.ID] = clone(t)
}

func (m *MockTableRepo) filter(restaurantID, status string) []*Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Table
	for _, t := range m.tables {
		if t.RestaurantID != restaurantID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		result = append(result, clone(t))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

func clone(t *Table) *Table {
	c := *t
	c.Cart = append([]LineItem(nil), t.Cart...)
	return &c
}

// MockPublisher records published messages
type MockPublisher struct {
	mu          sync.Mutex
	Published   []PublishedEvent
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
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
	m.Published = append(m.Published, PublishedEvent{Topic: topic, Data: msg})
	return nil
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}
