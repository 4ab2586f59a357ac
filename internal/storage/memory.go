package storage

import (
	"context"
	"sync"

	"calorie-tracker/internal/models"
)

// MemoryStore keeps the log in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.FoodRecord
}

func NewMemoryStore(records ...models.FoodRecord) *MemoryStore {
	return &MemoryStore{records: append([]models.FoodRecord(nil), records...)}
}

func (s *MemoryStore) Load(_ context.Context) ([]models.FoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FoodRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, records []models.FoodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]models.FoodRecord(nil), records...)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
