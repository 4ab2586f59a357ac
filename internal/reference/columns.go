// Package reference looks up foods in a tabular nutrient reference table.
//
// A table has a header row. One column holds the food description used for
// matching; four columns hold calories, carbohydrate, protein and fat; every
// other column whose header carries the micronutrient prefix is a candidate
// micronutrient keyed by its header text.
//
// Lookups are best-effort: a missing or unreadable table behaves like a table
// with no rows.
package reference

import "strings"

// ColumnMap names the header text of the columns the resolver cares about.
type ColumnMap struct {
	Description string
	Calories    string
	Carbs       string
	Protein     string
	Fat         string
	MicroPrefix string
}

// DefaultColumns matches the headers of the bundled food.csv.
var DefaultColumns = ColumnMap{
	Description: "Description",
	Calories:    "Data.Kilocalories",
	Carbs:       "Data.Carbohydrate",
	Protein:     "Data.Protein",
	Fat:         "Data.Fat.Total Lipid",
	MicroPrefix: "Data.",
}

// IsCore reports whether key is one of the calorie or macronutrient columns.
func (c ColumnMap) IsCore(key string) bool {
	switch key {
	case c.Calories, c.Carbs, c.Protein, c.Fat:
		return true
	}
	return false
}

// IsMicro reports whether key is a candidate micronutrient column.
func (c ColumnMap) IsMicro(key string) bool {
	return key != c.Description && !c.IsCore(key) && strings.HasPrefix(key, c.MicroPrefix)
}
