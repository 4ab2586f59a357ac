package nutrients

import (
	"fmt"
	"math"
	"strings"

	"calorie-tracker/internal/models"
	"calorie-tracker/internal/reference"
)

// Request carries the raw input for one food entry. A nil macro means the
// caller did not supply it, which is different from an explicit zero.
type Request struct {
	Name     string
	Calories *float64
	Carbs    *float64
	Protein  *float64
	Fat      *float64
	Micros   []string

	// Source overrides the resolver's default reference table.
	Source reference.Source
}

// Float returns a pointer to v, for filling Request macros.
func Float(v float64) *float64 {
	return &v
}

// Resolver turns requests into fully resolved food records.
type Resolver struct {
	source  reference.Source
	columns reference.ColumnMap
}

// NewResolver creates a resolver that consults source when a request names
// no table of its own. source may be nil.
func NewResolver(source reference.Source, columns reference.ColumnMap) *Resolver {
	return &Resolver{source: source, columns: columns}
}

// Resolve merges explicit values with the reference row for req.Name.
//
// Explicit macros always win. Unset macros come from the reference row, or
// are 0 when there is none. Micronutrients are auto-filled from the row only
// when the request carries no micronutrient tokens at all.
func (r *Resolver) Resolve(req Request) (models.FoodRecord, error) {
	src := req.Source
	if src == nil {
		src = r.source
	}

	calories, carbs, protein, fat := req.Calories, req.Carbs, req.Protein, req.Fat
	for _, f := range []struct {
		field string
		value *float64
	}{
		{"calories", calories},
		{"carbs", carbs},
		{"protein", protein},
		{"fat", fat},
	} {
		if err := checkAmount(f.field, f.value); err != nil {
			return models.FoodRecord{}, err
		}
	}
	tokens := req.Micros

	if src != nil {
		if row, ok := src.Find(req.Name); ok {
			var err error
			if calories, err = r.fill(calories, row, r.columns.Calories); err != nil {
				return models.FoodRecord{}, err
			}
			if carbs, err = r.fill(carbs, row, r.columns.Carbs); err != nil {
				return models.FoodRecord{}, err
			}
			if protein, err = r.fill(protein, row, r.columns.Protein); err != nil {
				return models.FoodRecord{}, err
			}
			if fat, err = r.fill(fat, row, r.columns.Fat); err != nil {
				return models.FoodRecord{}, err
			}
			if len(tokens) == 0 {
				tokens = r.microTokens(row)
			}
		}
	}

	micros, err := ParseMicros(tokens)
	if err != nil {
		return models.FoodRecord{}, err
	}

	return models.FoodRecord{
		Name:     req.Name,
		Calories: valueOrZero(calories),
		Carbs:    valueOrZero(carbs),
		Protein:  valueOrZero(protein),
		Fat:      valueOrZero(fat),
		Micros:   micros,
	}, nil
}

func (r *Resolver) fill(explicit *float64, row models.ReferenceRecord, column string) (*float64, error) {
	if explicit != nil {
		return explicit, nil
	}
	raw, _ := row.Get(column)
	if strings.TrimSpace(raw) == "" {
		return Float(0), nil
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return nil, fmt.Errorf("reference column %q: %w", column, err)
	}
	return &v, nil
}

func (r *Resolver) microTokens(row models.ReferenceRecord) []string {
	var tokens []string
	for _, f := range row.Fields {
		if !r.columns.IsMicro(f.Key) || strings.TrimSpace(f.Value) == "" {
			continue
		}
		tokens = append(tokens, f.Key+"="+f.Value)
	}
	return tokens
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// checkAmount rejects explicit values that ParseAmount would not produce.
func checkAmount(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return fmt.Errorf("%s: %w: %v", field, ErrInvalidNumericValue, *v)
	}
	return nil
}
