// internal/models/food.go
package models

import (
	"time"
)

// FoodRecord is one entry of the daily log. Every numeric field is resolved
// before the record reaches a log store.
type FoodRecord struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Carbs     float64   `json:"carbs"`
	Protein   float64   `json:"protein"`
	Fat       float64   `json:"fat"`
	Micros    Micros    `json:"micros"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Column is a single header/value cell of a reference table row.
type Column struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ReferenceRecord is one row of the reference nutrient table. Fields keep
// the table's header order.
type ReferenceRecord struct {
	Description string   `json:"description"`
	Fields      []Column `json:"fields"`
}

// Get returns the value of the named column.
func (r ReferenceRecord) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Totals is the aggregate of a sequence of food records.
type Totals struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Micros   Micros  `json:"micros"`
}
