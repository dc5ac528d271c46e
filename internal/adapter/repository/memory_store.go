package repository

import (
	"context"
	"sync"

	"skillswap/internal/domain/repository"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryStore keeps records in process memory. Used for development and tests.
func NewMemoryStore() repository.RecordStore {
	return &memoryStore{
		records: make(map[string]string),
	}
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[key]
	return value, ok, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.records[key] = value
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
