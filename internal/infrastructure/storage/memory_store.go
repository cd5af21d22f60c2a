package storage

import (
	"context"
	"sync"

	"github.com/yourusername/techspec-bot/internal/domain/repository"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[int64]map[string][]byte
}

// NewMemoryStore in-memory key/value store, lost on restart
func NewMemoryStore() repository.KeyValueStore {
	return &memoryStore{data: make(map[int64]map[string][]byte)}
}

// Get returns a copy so callers cannot mutate stored bytes.
func (m *memoryStore) Get(_ context.Context, ownerID int64, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records, ok := m.data[ownerID]
	if !ok {
		return nil, false, nil
	}
	value, ok := records[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *memoryStore) Set(_ context.Context, ownerID int64, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, ok := m.data[ownerID]
	if !ok {
		records = make(map[string][]byte)
		m.data[ownerID] = records
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	records[key] = stored
	return nil
}

func (m *memoryStore) Delete(_ context.Context, ownerID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if records, ok := m.data[ownerID]; ok {
		delete(records, key)
		if len(records) == 0 {
			delete(m.data, ownerID)
		}
	}
	return nil
}

func (m *memoryStore) Close() error { return nil }
