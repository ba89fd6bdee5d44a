package scanner

import "sync"

// KeySet is a concurrency-safe string set. The processed and shared sets are
// mutated both by the scan loop and by in-flight transfer goroutines, so
// every operation takes the lock.
type KeySet struct {
	mu    sync.Mutex
	keys  map[string]struct{}
	limit int
}

// NewKeySet creates an unbounded set
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]struct{})}
}

// NewBoundedKeySet creates a set that is cleared wholesale when an Add would
// push it past limit. Crude, not LRU: the occasional full reset is the point.
func NewBoundedKeySet(limit int) *KeySet {
	return &KeySet{keys: make(map[string]struct{}), limit: limit}
}

// Add inserts the key, clearing the whole set first if the bound is reached.
// Returns true if the set was cleared.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := false
	if s.limit > 0 && len(s.keys) >= s.limit {
		s.keys = make(map[string]struct{})
		cleared = true
	}
	s.keys[key] = struct{}{}
	return cleared
}

// Contains reports whether the key is in the set.
func (s *KeySet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// Remove deletes the key.
func (s *KeySet) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}

// Len returns the current size.
func (s *KeySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Drain removes and returns all keys.
func (s *KeySet) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	s.keys = make(map[string]struct{})
	return keys
}
