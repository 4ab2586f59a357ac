package nutrients

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"calorie-tracker/internal/models"
)

var tokenSeparators = regexp.MustCompile(`[\s,]+`)

// ParseMicros converts "key=value" tokens into a micronutrient mapping.
// Each token is split on its first '='; repeated keys are summed.
func ParseMicros(tokens []string) (models.Micros, error) {
	micros := models.NewMicros()
	for _, token := range tokens {
		key, raw, ok := strings.Cut(token, "=")
		if !ok {
			return models.Micros{}, fmt.Errorf("%w: %q", ErrMalformedMicroToken, token)
		}
		amount, err := ParseAmount(raw)
		if err != nil {
			return models.Micros{}, fmt.Errorf("micronutrient %q: %w", key, err)
		}
		micros.Add(key, amount)
	}
	return micros, nil
}

// SplitMicroTokens splits free text on runs of commas and whitespace.
func SplitMicroTokens(text string) []string {
	var tokens []string
	for _, part := range tokenSeparators.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// ParseMicrosString parses micronutrients submitted as one free-text field,
// e.g. "vit_c=8, iron=1 zinc=2".
func ParseMicrosString(text string) (models.Micros, error) {
	return ParseMicros(SplitMicroTokens(text))
}

// ParseAmount parses a finite, non-negative decimal number, tolerating
// surrounding whitespace. NaN, infinities and hex floats are rejected.
func ParseAmount(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if strings.ContainsAny(text, "xXpP_") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericValue, raw)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericValue, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidNumericValue, raw)
	}
	return v, nil
}
