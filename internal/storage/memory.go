package storage

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-memory Store used in tests. Documents round-trip through
// JSON so marshalling behavior matches the sqlite adapter.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Load reads the document for kind into v.
func (m *Memory) Load(kind string, v any) (bool, error) {
	m.mu.Lock()
	body, ok := m.docs[kind]
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", kind, err)
	}
	return true, nil
}

// Save replaces the document for kind with v.
func (m *Memory) Save(kind string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	m.mu.Lock()
	m.docs[kind] = body
	m.mu.Unlock()
	return nil
}

// Put stores raw bytes under kind, bypassing marshalling. Tests use it to
// simulate corrupt persisted state.
func (m *Memory) Put(kind string, body []byte) {
	m.mu.Lock()
	m.docs[kind] = body
	m.mu.Unlock()
}
