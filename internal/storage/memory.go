package storage

import (
	"sync"

	"github.com/starford/goldstar/internal/apperr"
)

// Memory implements Provider with an in-process map. Nothing survives a restart.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty Memory provider.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Load returns a copy of the record for key.
func (m *Memory) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[key]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under key.
func (m *Memory) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), data...)
	return nil
}

// Close is a no-op for Memory.
func (m *Memory) Close() error {
	return nil
}
