package store

import (
	"encoding/json"
	"sync"
)

// Backend persists one cart line list per session key.
type Backend interface {
	Load(key string) ([]CartLine, error)
	Save(key string, lines []CartLine) error
	Delete(key string) error
}

// MemoryBackend keeps carts in-process. Used in tests and as a fallback
// when redis is not configured.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Load(key string) ([]CartLine, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var lines []CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (m *MemoryBackend) Save(key string, lines []CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Seed stores a raw payload under a key, bypassing marshalling. Lets tests
// exercise the corrupt-storage path.
func (m *MemoryBackend) Seed(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
}
