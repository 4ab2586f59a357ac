package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calorie-tracker/internal/models"
)

func TestWriteSummary(t *testing.T) {
	m := models.NewMicros()
	m.Add("vit_c", 8)
	m.Add("iron", 0.25)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, models.Totals{Calories: 95, Carbs: 25, Protein: 0.5, Fat: 0.3, Micros: m}))

	assert.Equal(t, "Calories: 95\nCarbs: 25g\nProtein: 0.5g\nFat: 0.3g\nMicronutrients:\n  vit_c: 8\n  iron: 0.25\n", buf.String())
}

func TestWriteSummary_NoMicros(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, models.Totals{}))
	assert.Equal(t, "Calories: 0\nCarbs: 0g\nProtein: 0g\nFat: 0g\n", buf.String())
}

func TestWriteReference(t *testing.T) {
	row := models.ReferenceRecord{Description: "Apple", Fields: []models.Column{
		{Key: "Description", Value: "Apple"},
		{Key: "Data.Kilocalories", Value: "95"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReference(&buf, row))
	assert.Equal(t, "{\n  \"Description\": \"Apple\",\n  \"Data.Kilocalories\": \"95\"\n}\n", buf.String())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "95", decoded["Data.Kilocalories"])
}
