package settings

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Store. Set fires the key's callbacks.
type Memory struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	subs   callbacks
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]json.RawMessage)}
}

// Get implements Store.
func (m *Memory) Get(key string, out any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, raw, out)
}

// Set stores v under key and runs the key's callbacks.
func (m *Memory) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = raw
	m.mu.Unlock()

	m.subs.fire(key)
	return nil
}

// Erase removes key and runs the key's callbacks.
func (m *Memory) Erase(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()

	m.subs.fire(key)
}

// AddOnChange implements Store.
func (m *Memory) AddOnChange(key string, fn func()) {
	m.subs.add(key, fn)
}

// ClearOnChange implements Store.
func (m *Memory) ClearOnChange(key string) {
	m.subs.clear(key)
}

// Subscribers returns how many callbacks are registered for key.
func (m *Memory) Subscribers(key string) int {
	return m.subs.count(key)
}
