// Package nutrients resolves food records from explicit input and reference
// data, parses micronutrient tokens, and aggregates records into totals.
// Callers should use errors.Is to match the errors below.
package nutrients

import "errors"

var (
	// ErrMalformedMicroToken is returned for a micronutrient token without '='.
	ErrMalformedMicroToken = errors.New("malformed micronutrient token")

	// ErrInvalidNumericValue is returned when text that must be a number is not.
	ErrInvalidNumericValue = errors.New("invalid numeric value")
)
