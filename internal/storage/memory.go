package storage

import (
	"context"
	"sync"
)

// Memory is an in-process adapter used by tests and ephemeral deployments.
// MaxBytes caps the total stored payload size so callers can exercise the
// ErrStorageFull path; zero means unlimited.
type Memory struct {
	mu       sync.RWMutex
	values   map[string][]byte
	MaxBytes int
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MaxBytes > 0 {
		total := len(value)
		for k, v := range m.values {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.MaxBytes {
			return ErrStorageFull
		}
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
