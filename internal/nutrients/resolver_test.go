package nutrients

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calorie-tracker/internal/models"
	"calorie-tracker/internal/reference"
)

func appleTable() *reference.Table {
	return reference.NewTable(
		models.ReferenceRecord{
			Description: "Apple",
			Fields: []models.Column{
				{Key: "Category", Value: "Fruit"},
				{Key: "Description", Value: "Apple"},
				{Key: "Data.Kilocalories", Value: "95"},
				{Key: "Data.Carbohydrate", Value: "25"},
				{Key: "Data.Protein", Value: "0.5"},
				{Key: "Data.Fat.Total Lipid", Value: "0.3"},
				{Key: "Data.Vitamins.Vitamin C", Value: "8.4"},
				{Key: "Data.Fiber", Value: ""},
			},
		},
		models.ReferenceRecord{
			Description: "Water",
			Fields: []models.Column{
				{Key: "Description", Value: "Water"},
				{Key: "Data.Kilocalories", Value: ""},
			},
		},
		models.ReferenceRecord{
			Description: "Broken",
			Fields: []models.Column{
				{Key: "Description", Value: "Broken"},
				{Key: "Data.Protein", Value: "n/a"},
			},
		},
	)
}

func TestResolve_AutofillsEverythingFromReference(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	rec, err := r.Resolve(Request{Name: "Apple"})
	require.NoError(t, err)

	assert.Equal(t, "Apple", rec.Name)
	assert.Equal(t, 95.0, rec.Calories)
	assert.Equal(t, 25.0, rec.Carbs)
	assert.Equal(t, 0.5, rec.Protein)
	assert.Equal(t, 0.3, rec.Fat)
	assert.Equal(t, map[string]float64{"Data.Vitamins.Vitamin C": 8.4}, rec.Micros.ToMap())
}

func TestResolve_NameMatchIsCaseInsensitive(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	rec, err := r.Resolve(Request{Name: "aPpLe"})
	require.NoError(t, err)
	assert.Equal(t, "aPpLe", rec.Name)
	assert.Equal(t, 95.0, rec.Calories)
}

func TestResolve_ExplicitValuesWin(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	rec, err := r.Resolve(Request{
		Name:     "Apple",
		Calories: Float(95),
		Protein:  Float(0),
		Micros:   []string{"vit_c=8"},
	})
	require.NoError(t, err)

	assert.Equal(t, 95.0, rec.Calories)
	assert.Equal(t, 25.0, rec.Carbs, "unset field still comes from the reference")
	assert.Equal(t, 0.0, rec.Protein, "explicit zero is not unset")
	assert.Equal(t, 0.3, rec.Fat)
	assert.Equal(t, map[string]float64{"vit_c": 8}, rec.Micros.ToMap(), "explicit micros suppress auto-fill")
}

func TestResolve_NotFoundDefaultsToZero(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	rec, err := r.Resolve(Request{Name: "Durian"})
	require.NoError(t, err)
	assert.Equal(t, models.FoodRecord{Name: "Durian", Micros: rec.Micros}, rec)
	assert.Equal(t, 0, rec.Micros.Len())
}

func TestResolve_NotFoundUsesExplicitValues(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	rec, err := r.Resolve(Request{Name: "Toast", Calories: Float(80), Fat: Float(1), Micros: []string{"iron=1", "iron=0.5"}})
	require.NoError(t, err)
	assert.Equal(t, 80.0, rec.Calories)
	assert.Equal(t, 0.0, rec.Carbs)
	assert.Equal(t, 0.0, rec.Protein)
	assert.Equal(t, 1.0, rec.Fat)
	assert.Equal(t, map[string]float64{"iron": 1.5}, rec.Micros.ToMap())
}

func TestResolve_BlankReferenceColumnIsZero(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	rec, err := r.Resolve(Request{Name: "Water"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Calories)
	assert.Equal(t, 0, rec.Micros.Len())
}

func TestResolve_NonNumericReferenceColumnFails(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	_, err := r.Resolve(Request{Name: "Broken"})
	require.ErrorIs(t, err, ErrInvalidNumericValue)

	_, err = r.Resolve(Request{Name: "Broken", Protein: Float(6)})
	require.NoError(t, err, "explicit value means the bad column is never read")
}

func TestResolve_PropagatesMicroErrors(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	_, err := r.Resolve(Request{Name: "Apple", Micros: []string{"bad"}})
	require.ErrorIs(t, err, ErrMalformedMicroToken)

	_, err = r.Resolve(Request{Name: "Apple", Micros: []string{"vit_c=x"}})
	require.ErrorIs(t, err, ErrInvalidNumericValue)
}

func TestResolve_RejectsNonFiniteAndNegativeExplicitValues(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)

	for _, req := range []Request{
		{Name: "Apple", Calories: Float(math.NaN())},
		{Name: "Apple", Carbs: Float(math.Inf(1))},
		{Name: "Durian", Protein: Float(-1)},
		{Name: "Apple", Fat: Float(math.Inf(-1))},
		{Name: "Apple", Micros: []string{"vit_c=NaN"}},
		{Name: "Apple", Micros: []string{"iron=Inf"}},
		{Name: "Apple", Micros: []string{"zinc=0x1p3"}},
		{Name: "Apple", Micros: []string{"zinc=-2"}},
	} {
		_, err := r.Resolve(req)
		assert.ErrorIs(t, err, ErrInvalidNumericValue, "%+v", req)
	}

	rec, err := r.Resolve(Request{Name: "Apple", Calories: Float(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Calories)
}

func TestResolve_RequestSourceOverridesDefault(t *testing.T) {
	r := NewResolver(appleTable(), reference.DefaultColumns)
	other := reference.NewTable(models.ReferenceRecord{
		Description: "Apple",
		Fields:      []models.Column{{Key: "Data.Kilocalories", Value: "52"}},
	})

	rec, err := r.Resolve(Request{Name: "Apple", Source: other})
	require.NoError(t, err)
	assert.Equal(t, 52.0, rec.Calories)
}

func TestResolve_NilSourceFallsBack(t *testing.T) {
	r := NewResolver(nil, reference.DefaultColumns)

	rec, err := r.Resolve(Request{Name: "Apple", Carbs: Float(3)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.Carbs)
	assert.Equal(t, 0.0, rec.Calories)
}
