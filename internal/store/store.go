package store

import (
	"fmt"
	"iter"
	"maps"
)

// Store is an insertion-ordered mapping from string keys to arbitrary values.
// The zero value is ready to use.
type Store struct {
	keys   []string
	values map[string]any
}

// New creates an empty Store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Set writes value under key, overwriting any previous value.
func (s *Store) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value under key if it is a string.
func (s *Store) GetString(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// Keys returns the keys in first-insertion order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// All iterates over the entries in first-insertion order.
func (s *Store) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range s.keys {
			if !yield(k, s.values[k]) {
				return
			}
		}
	}
}

// Strings returns a copy of every entry whose value is a string.
func (s *Store) Strings() map[string]string {
	out := make(map[string]string)
	for k, v := range s.All() {
		if str, ok := v.(string); ok {
			out[k] = str
		}
	}
	return out
}

// Snapshot returns a shallow copy of the entries.
func (s *Store) Snapshot() map[string]any {
	return maps.Clone(s.values)
}

// String renders the store for logs. Non-string values are shown by type only.
func (s *Store) String() string {
	parts := make([]string, 0, len(s.keys))
	for k, v := range s.All() {
		switch val := v.(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s=%q", k, val))
		default:
			parts = append(parts, fmt.Sprintf("%s=<%T>", k, val))
		}
	}
	return fmt.Sprint(parts)
}
