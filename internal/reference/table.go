package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"calorie-tracker/internal/models"
)

// Source finds reference rows by food name.
type Source interface {
	Find(name string) (models.ReferenceRecord, bool)
}

// Table is an in-memory reference table.
type Table struct {
	rows []models.ReferenceRecord
}

// NewTable returns a table over rows, kept in the given order.
func NewTable(rows ...models.ReferenceRecord) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Find returns the first row whose description equals name, ignoring case.
func (t *Table) Find(name string) (models.ReferenceRecord, bool) {
	if t == nil {
		return models.ReferenceRecord{}, false
	}
	for _, row := range t.rows {
		if strings.EqualFold(row.Description, name) {
			return row, true
		}
	}
	return models.ReferenceRecord{}, false
}

// ReadCSV parses a CSV document with a header row. Short rows are padded
// with blank values; cells beyond the header are dropped.
func ReadCSV(r io.Reader, columns ColumnMap) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{}
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(t.rows)+1, err)
		}

		row := models.ReferenceRecord{Fields: make([]models.Column, len(header))}
		for i, key := range header {
			var value string
			if i < len(cells) {
				value = cells[i]
			}
			row.Fields[i] = models.Column{Key: key, Value: value}
			if key == columns.Description {
				row.Description = value
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}
