package notification

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MockEventRepo struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*Event

	AppendFunc    func(ctx context.Context, ev *Event) error
	MarkReadCalls int
}

func NewMockEventRepo() *MockEventRepo {
	return &MockEventRepo{events: make(map[uuid.UUID]*Event)}
}

func (m *MockEventRepo) Append(ctx context.Context, ev *Event) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, ev)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *ev
	m.events[ev.ID] = &c
	return nil
}

func (m *MockEventRepo) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ev, ok := m.events[id]; ok && ev.RestaurantID == restaurantID {
		c := *ev
		return &c, nil
	}
	return nil, nil
}

func (m *MockEventRepo) List(ctx context.Context, restaurantID string, unreadOnly bool) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Event
	for _, ev := range m.events {
		if ev.RestaurantID != restaurantID || (unreadOnly && ev.Read) {
			continue
		}
		c := *ev
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockEventRepo) MarkRead(ctx context.Context, restaurantID string, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkReadCalls++
	if ev, ok := m.events[id]; ok && ev.RestaurantID == restaurantID {
		ev.Read = true
		ev.ReadAt = &at
	}
	return nil
}

type MockPublisher struct {
	mu          sync.Mutex
	Topics      []string
	Messages    [][]byte
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
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
