package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem[T any] struct {
	value     T
	expiresAt time.Time
}

var _ Cache[struct{}] = (*Memory[struct{}])(nil)

// Memory is an in-process cache with lazy expiration. Suitable for
// single-instance deployments.
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]memoryItem[T]
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{items: make(map[string]memoryItem[T])}
}

func (m *Memory[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		var zero T
		return zero, ErrMiss
	}
	return item.value, nil
}

func (m *Memory[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (m *Memory[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *Memory[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]memoryItem[T])
	return nil
}

func (m *Memory[T]) Health(ctx context.Context) error {
	return nil
}
