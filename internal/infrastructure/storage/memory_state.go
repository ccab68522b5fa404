package storage

import (
	"context"
	"sync"

	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

type memoryStateRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStateRepository keeps state for the life of the process only.
func NewMemoryStateRepository() repository.StateRepository {
	return &memoryStateRepository{values: make(map[string]string)}
}

func (m *memoryStateRepository) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", repository.ErrStateNotFound
	}
	return v, nil
}

func (m *memoryStateRepository) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *memoryStateRepository) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryStateRepository) Close() error { return nil }
