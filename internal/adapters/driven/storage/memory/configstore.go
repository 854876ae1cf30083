// Package memory provides an in-memory driven.ConfigStore for tests.
// Nothing is persisted; Saves counts how often a write would have happened.
package memory

import (
	"sort"
	"sync"

	"github.com/custodia-labs/pfgrants/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	saves  int
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
	}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt returns the value at key when it is a whole number.
func (s *ConfigStore) GetInt(key string) int {
	n, _ := s.whole(key)
	return n
}

// GetFloat returns the value at key when it is numeric.
func (s *ConfigStore) GetFloat(key string) float64 {
	if n, ok := s.whole(key); ok {
		return float64(n)
	}
	val, _ := s.Get(key)
	f, _ := val.(float64)
	return f
}

func (s *ConfigStore) whole(key string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch v := s.values[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.saves++
	return nil
}

// Delete removes a key.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.saves++
	}
	return nil
}

// Keys returns every stored key in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save counts a persist request; nothing is written.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return nil
}

// Load is a no-op for the memory store.
func (s *ConfigStore) Load() error {
	return nil
}

// Path returns a placeholder path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}

// Saves returns how many times values were persisted.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
