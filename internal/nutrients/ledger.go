package nutrients

import "calorie-tracker/internal/models"

// Totals folds records, in log order, into running sums. Micronutrient keys
// keep the order in which they were first seen across the fold.
func Totals(records []models.FoodRecord) models.Totals {
	totals := models.Totals{Micros: models.NewMicros()}
	for _, rec := range records {
		totals.Calories += rec.Calories
		totals.Carbs += rec.Carbs
		totals.Protein += rec.Protein
		totals.Fat += rec.Fat
		totals.Micros.Merge(rec.Micros)
	}
	return totals
}
