package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"calorie-tracker/internal/models"
)

// JSONFileStore keeps the log as an indented JSON array in a single file.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the log file location.
func (s *JSONFileStore) Path() string {
	return s.path
}

func (s *JSONFileStore) Load(_ context.Context) ([]models.FoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.FoodRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	var records []models.FoodRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode log %s: %w", s.path, err)
	}
	if records == nil {
		records = []models.FoodRecord{}
	}
	return records, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the log, so a failed write leaves the previous log intact.
func (s *JSONFileStore) Save(_ context.Context, records []models.FoodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []models.FoodRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode log: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace log: %w", err)
	}
	return nil
}

func (s *JSONFileStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove log: %w", err)
	}
	return nil
}

func (s *JSONFileStore) Close() error {
	return nil
}
