package internal

import "sync"

// SafeMap is a mutex-guarded string-keyed map.
type SafeMap[V any] struct {
	mu sync.Mutex
	v  map[string]V
}

func NewSafeMap[V any]() *SafeMap[V] {
	return &SafeMap[V]{v: make(map[string]V)}
}

func (s *SafeMap[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.v[key]
	return val, ok
}

func (s *SafeMap[V]) Set(key string, val V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v[key] = val
}

