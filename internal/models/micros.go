// internal/models/micros.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Micros maps micronutrient keys to amounts and remembers the order in which
// keys were first added. Keys are case-sensitive and never normalized.
type Micros struct {
	keys   []string
	values map[string]float64
}

// NewMicros returns an empty mapping.
func NewMicros() Micros {
	return Micros{values: make(map[string]float64)}
}

// Add sums amount into key, appending key to the order on first sight.
func (m *Micros) Add(key string, amount float64) {
	if m.values == nil {
		m.values = make(map[string]float64)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] += amount
}

// Get returns the amount stored for key.
func (m Micros) Get(key string) (float64, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (m Micros) Len() int {
	return len(m.keys)
}

// Keys returns the keys in first-seen order.
func (m Micros) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every key in first-seen order.
func (m Micros) Each(fn func(key string, amount float64)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Merge folds other into m, summing shared keys.
func (m *Micros) Merge(other Micros) {
	other.Each(m.Add)
}

// Clone returns an independent copy.
func (m Micros) Clone() Micros {
	c := NewMicros()
	c.Merge(m)
	return c
}

// ToMap returns an unordered copy of the mapping.
func (m Micros) ToMap() map[string]float64 {
	out := make(map[string]float64, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object with keys in order.
func (m Micros) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
// Repeated keys are summed.
func (m *Micros) UnmarshalJSON(data []byte) error {
	*m = NewMicros()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("micros: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("micros: expected key, got %v", tok)
		}
		var amount float64
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("micros: value for %q: %w", key, err)
		}
		m.Add(key, amount)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
