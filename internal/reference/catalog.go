package reference

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"calorie-tracker/internal/models"
)

// Catalog opens CSV reference tables by path and keeps parsed tables in an
// expiring in-memory cache.
type Catalog struct {
	columns ColumnMap
	cache   *cache.Cache
	log     logrus.FieldLogger
}

// NewCatalog creates a catalog. A non-positive ttl disables caching so every
// lookup rereads the file.
func NewCatalog(columns ColumnMap, ttl time.Duration, log logrus.FieldLogger) *Catalog {
	c := &Catalog{columns: columns, log: log}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// Columns returns the column mapping used to parse tables.
func (c *Catalog) Columns() ColumnMap {
	return c.columns
}

// Source returns a lookup bound to the CSV file at path.
func (c *Catalog) Source(path string) Source {
	return &fileSource{catalog: c, path: path}
}

// Load reads and parses the table at path, consulting the cache first.
func (c *Catalog) Load(path string) (*Table, error) {
	if c.cache != nil {
		if v, found := c.cache.Get(path); found {
			if t, ok := v.(*Table); ok {
				return t, nil
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f, c.columns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference table %s: %w", path, err)
	}

	if c.cache != nil {
		c.cache.Set(path, t, cache.DefaultExpiration)
	}
	c.log.WithFields(logrus.Fields{
		"path": path,
		"rows": t.Len(),
	}).Debug("Loaded reference table")
	return t, nil
}

// Invalidate drops a cached table so the next lookup rereads it.
func (c *Catalog) Invalidate(path string) {
	if c.cache != nil {
		c.cache.Delete(path)
	}
}

type fileSource struct {
	catalog *Catalog
	path    string
}

func (s *fileSource) Find(name string) (models.ReferenceRecord, bool) {
	t, err := s.catalog.Load(s.path)
	if err != nil {
		s.catalog.log.WithFields(logrus.Fields{
			"path":  s.path,
			"error": err,
		}).Debug("Reference table unavailable")
		return models.ReferenceRecord{}, false
	}
	return t.Find(name)
}
