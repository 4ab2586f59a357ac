// Package report renders totals and reference rows as plain text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"calorie-tracker/internal/models"
)

// FormatAmount prints v without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteSummary prints the daily totals, micronutrients in first-seen order.
func WriteSummary(w io.Writer, t models.Totals) error {
	lines := []string{
		"Calories: " + FormatAmount(t.Calories),
		"Carbs: " + FormatAmount(t.Carbs) + "g",
		"Protein: " + FormatAmount(t.Protein) + "g",
		"Fat: " + FormatAmount(t.Fat) + "g",
	}
	if t.Micros.Len() > 0 {
		lines = append(lines, "Micronutrients:")
		t.Micros.Each(func(key string, amount float64) {
			lines = append(lines, fmt.Sprintf("  %s: %s", key, FormatAmount(amount)))
		})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteReference prints a reference row as an indented JSON object in
// header order.
func WriteReference(w io.Writer, row models.ReferenceRecord) error {
	out := make([]byte, 0, 256)
	out = append(out, "{\n"...)
	for i, f := range row.Fields {
		k, err := json.Marshal(f.Key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return err
		}
		out = append(out, "  "...)
		out = append(out, k...)
		out = append(out, ": "...)
		out = append(out, v...)
		if i < len(row.Fields)-1 {
			out = append(out, ',')
		}
		out = append(out, '\n')
	}
	out = append(out, "}\n"...)
	_, err := w.Write(out)
	return err
}
