// Package memory is an in-process collection store for tests and the
// memory backend.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string][]byte
}

func New() *Store {
	return &Store{collections: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	return clone(payload), nil
}

func (s *Store) Set(_ context.Context, name string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[name] = clone(payload)
	return nil
}

func (s *Store) SetMany(_ context.Context, payloads map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, payload := range payloads {
		s.collections[name] = clone(payload)
	}
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
