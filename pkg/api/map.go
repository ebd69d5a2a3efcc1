package api

import (
	"fmt"
	"sync"
)

// Map is an insertion-ordered, internally synchronized key/value mapping.
// It is the same concept as Store without the auto-close contract: the
// engine never closes Map values at scope end.
type Map struct {
	mu     sync.Mutex
	keys   []any
	values map[any]any

	// readOnly marks a view returned by ReadOnly; reads delegate to
	// backing and mutators panic.
	readOnly bool
	backing  *Map
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{values: make(map[any]any)}
}

// Put associates value with key.
func (m *Map) Put(key, value any) {
	m.checkMutable("Put")
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value associated with key, or nil if absent.
func (m *Map) Get(key any) any {
	if m.readOnly {
		return m.backing.Get(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	if m.readOnly {
		return m.backing.Has(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

// Remove removes key and returns the previous value, or nil if absent.
func (m *Map) Remove(key any) any {
	m.checkMutable("Remove")
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return v
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any {
	if m.readOnly {
		return m.backing.Keys()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.keys))
	copy(out, m.keys)
	return out
}

// Size returns the number of entries.
func (m *Map) Size() int {
	if m.readOnly {
		return m.backing.Size()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

// Clear removes all entries.
func (m *Map) Clear() {
	m.checkMutable("Clear")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = nil
	m.values = make(map[any]any)
}

// ReadOnly returns a view of the map whose mutators panic.
func (m *Map) ReadOnly() *Map {
	if m.readOnly {
		return m
	}
	return &Map{readOnly: true, backing: m}
}

func (m *Map) checkMutable(op string) {
	if m.readOnly {
		panic(fmt.Sprintf("map: %s on read-only view", op))
	}
}
