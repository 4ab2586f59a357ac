// Package storage persists the daily food log.
//
// A LogStore holds an ordered sequence of food records. Callers load the
// whole log, append, and save it back; Reset clears everything. Three
// implementations exist: a JSON file, a SQLite database, and memory.
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"calorie-tracker/internal/models"
)

// LogStore is the persistence contract for the daily log.
type LogStore interface {
	// Load returns all records in log order, or an empty slice when no log exists.
	Load(ctx context.Context) ([]models.FoodRecord, error)

	// Save replaces the log with records.
	Save(ctx context.Context, records []models.FoodRecord) error

	// Reset clears the log.
	Reset(ctx context.Context) error

	Close() error
}

// Backend names a LogStore implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open builds the store selected by backend. path is the JSON file for
// BackendJSON and the database DSN for BackendSQLite.
func Open(ctx context.Context, backend Backend, path string, log logrus.FieldLogger) (LogStore, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, path, log)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
