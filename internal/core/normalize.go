// Package core contains the business logic for opsdesk: input
// normalization, per-field record validation, derived approval metrics,
// task draft lifecycles, and configuration.
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericLiteral matches a complete decimal literal, optionally signed,
// with an optional fraction and exponent. Partial matches such as "12abc"
// must not pass, so the pattern is anchored at both ends.
var numericLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// NumericOptions controls how NormalizeNumeric treats the empty string.
type NumericOptions struct {
	// TreatEmptyAsZero maps "" to 0 instead of NaN. Used for fields whose
	// absence means "no adjustment", such as PDR.
	TreatEmptyAsZero bool
}

// NormalizeNumeric strips thousands separators and spaces from a
// user-entered numeric string and coerces it to a number. It returns NaN
// when the remainder is not a complete numeric literal; callers interpret
// NaN as "not yet provided". Pure, no side effects.
func NormalizeNumeric(raw string, opts NumericOptions) float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if cleaned == "" {
		if opts.TreatEmptyAsZero {
			return 0
		}
		return math.NaN()
	}

	if !numericLiteral.MatchString(cleaned) {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// IsNumeric reports whether s, after separator stripping, parses as a
// complete numeric literal.
func IsNumeric(s string) bool {
	return !math.IsNaN(NormalizeNumeric(s, NumericOptions{}))
}
