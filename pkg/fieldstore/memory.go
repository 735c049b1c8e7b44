package fieldstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory field store.
// It's the default store and suitable for a single server process; values
// are lost on restart. For durable values use SQLStore, S3Store or RedisStore.
type MemoryStore struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
	closed bool
}

// NewMemoryStore creates a new in-memory field store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scopes: make(map[string]map[string]string),
	}
}

// Get returns the value stored under key in scope.
func (m *MemoryStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrStoreClosed
	}

	v, ok := m.scopes[scope][key]
	return v, ok, nil
}

// Set stores value under key in scope.
func (m *MemoryStore) Set(ctx context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	fields, ok := m.scopes[scope]
	if !ok {
		fields = make(map[string]string)
		m.scopes[scope] = fields
	}
	fields[key] = value
	return nil
}

// Delete removes keys from scope under a single lock.
func (m *MemoryStore) Delete(ctx context.Context, scope string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	fields, ok := m.scopes[scope]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(fields, k)
	}
	if len(fields) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

// List returns a copy of every pair in scope.
func (m *MemoryStore) List(ctx context.Context, scope string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make(map[string]string, len(m.scopes[scope]))
	for k, v := range m.scopes[scope] {
		out[k] = v
	}
	return out, nil
}

// Close shuts down the store and releases resources.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	m.scopes = nil
	return nil
}

// Count returns the number of scopes holding at least one value.
// This is for monitoring/testing purposes.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scopes)
}
