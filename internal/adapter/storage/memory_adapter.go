package storage

import (
	"context"
	"sync"
	"time"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

// MemoryAdapter is an in-process ItemStore backed by a mutex-guarded map.
// It is the default backend for local runs and the store double in tests.
type MemoryAdapter struct {
	mu     sync.Mutex
	items  map[int64]domain.Item
	byName map[string]int64
	nextID int64
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items:  make(map[int64]domain.Item),
		byName: make(map[string]int64),
	}
}

func (m *MemoryAdapter) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *MemoryAdapter) FindByName(ctx context.Context, name string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byName[name]
	if !ok {
		return nil, nil
	}
	item := m.items[id]
	return &item, nil
}

func (m *MemoryAdapter) FindAll(ctx context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]domain.Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	return items, nil
}

func (m *MemoryAdapter) Insert(ctx context.Context, item domain.Item) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byName[item.Name]; taken {
		return nil, port.ErrNameTaken
	}

	m.nextID++
	now := time.Now()
	item.ID = m.nextID
	item.Version = 0
	item.CreatedAt = now
	item.UpdatedAt = now

	m.items[item.ID] = item
	m.byName[item.Name] = item.ID
	return &item, nil
}

func (m *MemoryAdapter) Update(ctx context.Context, item domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[item.ID]
	if !ok || stored.Version != item.Version {
		return port.ErrVersionConflict
	}

	if stored.Name != item.Name {
		delete(m.byName, stored.Name)
		m.byName[item.Name] = item.ID
	}

	stored.Name = item.Name
	stored.Quantity = item.Quantity
	stored.Price = item.Price
	stored.Version++
	stored.UpdatedAt = time.Now()

	m.items[item.ID] = stored
	return nil
}
