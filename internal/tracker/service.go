// Package tracker ties nutrient resolution to the log store. Every
// presentation surface (CLI, web form, MCP tools) goes through Service.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"calorie-tracker/internal/models"
	"calorie-tracker/internal/nutrients"
	"calorie-tracker/internal/reference"
	"calorie-tracker/internal/storage"
)

// Tables opens reference tables by path.
type Tables interface {
	Source(path string) reference.Source
}

// Service performs the load-resolve-append-save cycle for one request at a
// time and reports totals.
type Service struct {
	mu       sync.Mutex
	store    storage.LogStore
	tables   Tables
	fallback reference.Source
	resolver *nutrients.Resolver
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a service. defaultTable is the reference table used
// when a request does not name one.
func NewService(store storage.LogStore, tables Tables, defaultTable string, columns reference.ColumnMap, log logrus.FieldLogger) *Service {
	fallback := tables.Source(defaultTable)
	return &Service{
		store:    store,
		tables:   tables,
		fallback: fallback,
		resolver: nutrients.NewResolver(fallback, columns),
		log:      log,
		now:      time.Now,
	}
}

// Table returns the reference table at path, or nil for the default table.
func (s *Service) Table(path string) reference.Source {
	if path == "" {
		return nil
	}
	return s.tables.Source(path)
}

// Add resolves req and appends the record to the log. Nothing is written
// when resolution fails.
func (s *Service) Add(ctx context.Context, req nutrients.Request) (models.FoodRecord, error) {
	rec, err := s.resolver.Resolve(req)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"name":  req.Name,
			"error": err,
		}).Warn("Rejected food entry")
		return models.FoodRecord{}, err
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return models.FoodRecord{}, fmt.Errorf("failed to load log: %w", err)
	}
	records = append(records, rec)
	if err := s.store.Save(ctx, records); err != nil {
		return models.FoodRecord{}, fmt.Errorf("failed to save log: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"id":       rec.ID,
		"name":     rec.Name,
		"calories": rec.Calories,
		"micros":   rec.Micros.Len(),
	}).Info("Added food")
	return rec, nil
}

// Records returns the log in insertion order.
func (s *Service) Records(ctx context.Context) ([]models.FoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load log: %w", err)
	}
	return records, nil
}

// Summary recomputes totals from the full log.
func (s *Service) Summary(ctx context.Context) (models.Totals, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return models.Totals{}, err
	}
	return nutrients.Totals(records), nil
}

// Reset clears the log.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset log: %w", err)
	}
	s.log.Info("Log reset")
	return nil
}

// Lookup finds name in the table at path, or in the default table when path
// is empty.
func (s *Service) Lookup(name, path string) (models.ReferenceRecord, bool) {
	src := s.Table(path)
	if src == nil {
		src = s.fallback
	}
	if src == nil {
		return models.ReferenceRecord{}, false
	}
	return src.Find(name)
}
