package flow

import "sync"

// SharedState is the mutable context threaded through every node in a run.
// It is created once by the caller and handed to a Flow; the Flow never
// replaces it, only mutates it, so every node observes every other node's
// writes. All operations are protected by a read-write mutex so the same
// SharedState can be shared safely across the goroutines a parallel batch
// variant spawns — callers are still responsible for key-disjointness when
// concurrent branches write to it, per the concurrency model.
type SharedState struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

// NewSharedState creates an empty, ready-to-use SharedState.
func NewSharedState() *SharedState {
	return &SharedState{data: make(map[string]interface{})}
}

// Set stores value under key, overwriting any existing entry.
func (s *SharedState) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Get returns the value stored under key, or nil if absent.
func (s *SharedState) Get(key string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

// GetInt returns the int stored under key, or 0 if absent or not an int.
func (s *SharedState) GetInt(key string) int {
	if i, ok := s.Get(key).(int); ok {
		return i
	}
	return 0
}

// GetString returns the string stored under key, or "" if absent or not a string.
func (s *SharedState) GetString(key string) string {
	if v, ok := s.Get(key).(string); ok {
		return v
	}
	return ""
}

// GetSlice returns the []interface{} stored under key, or an empty slice if
// absent or of a different concrete slice type. Callers holding a typed
// slice (e.g. []int) should type-assert Get directly.
func (s *SharedState) GetSlice(key string) []interface{} {
	if v, ok := s.Get(key).([]interface{}); ok {
		return v
	}
	return []interface{}{}
}

// Append adds value to the []interface{} stored under key, creating it if
// absent.
func (s *SharedState) Append(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[key].([]interface{}); ok {
		s.data[key] = append(existing, value)
	} else {
		s.data[key] = []interface{}{value}
	}
}

// Keys returns the set of keys currently stored, in no particular order.
func (s *SharedState) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
