package memory

import (
	"context"
	"os"
	"strings"
	"sync"

	"fintrack/internal/storage"
)

// Store is an in-process KV. Data lives as long as the process.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

func New() *Store {
	return &Store{items: map[string]string{}}
}

// NewFromFile seeds the transactions key with the contents of path. A missing
// or blank file leaves the store empty.
func NewFromFile(path string) *Store {
	s := New()
	if data, err := os.ReadFile(path); err == nil {
		if blob := strings.TrimSpace(string(data)); blob != "" {
			s.items[storage.TransactionsKey] = blob
		}
	}
	return s
}

// Get implements storage.KV
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// Set implements storage.KV
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Keys lists the stored keys.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}
