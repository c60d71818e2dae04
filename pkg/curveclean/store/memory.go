package store

import (
	"context"
	"sync"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process Store used for tests and ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	scalars map[string]string
	lists   map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		scalars: make(map[string]string),
		lists:   make(map[string][]string),
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scalars[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SetMany implements Store.
func (m *Memory) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.scalars[k] = v
	}
	return nil
}

// Range implements Store.
func (m *Memory) Range(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.lists[key]
	lo, hi, ok := rangeBounds(int64(len(items)), start, stop)
	if !ok {
		return []string{}, nil
	}
	out := make([]string, hi-lo)
	copy(out, items[lo:hi])
	return out, nil
}

// Push implements Store.
func (m *Memory) Push(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.scalars, k)
		delete(m.lists, k)
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
