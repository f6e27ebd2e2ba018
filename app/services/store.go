package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Store is an in-memory key/value store. Bound as a singleton; releasing it
// from the container discards its contents.
type Store struct {
	ID uuid.UUID

	mu   sync.RWMutex
	data map[string]string
}

func NewStore() *Store {
	return &Store{ID: uuid.New(), data: make(map[string]string)}
}

func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Keys returns the stored keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Keys(s.data)
}

// Flush drops every entry and returns how many there were.
func (s *Store) Flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.data)
	s.data = make(map[string]string)
	return n
}
