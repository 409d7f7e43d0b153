package core

import (
	"math"
	"testing"
)

func TestNormalizeNumeric_StripsSeparators(t *testing.T) {
	cases := map[string]float64{
		"1234":      1234,
		"1,234":     1234,
		"1,234,567": 1234567,
		" 12 34 ":   1234,
		"-42":       -42,
		"+7":        7,
		"3.5":       3.5,
		"1e3":       1000,
		".5":        0.5,
	}
	for raw, want := range cases {
		if got := NormalizeNumeric(raw, NumericOptions{}); got != want {
			t.Errorf("NormalizeNumeric(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNormalizeNumeric_RejectsPartialLiterals(t *testing.T) {
	for _, raw := range []string{"12abc", "abc", "1.2.3", "12-", "--5", "1,2e", "NaN", "Inf"} {
		if got := NormalizeNumeric(raw, NumericOptions{}); !math.IsNaN(got) {
			t.Errorf("NormalizeNumeric(%q) = %v, want NaN", raw, got)
		}
	}
}

func TestNormalizeNumeric_EmptyString(t *testing.T) {
	if got := NormalizeNumeric("", NumericOptions{}); !math.IsNaN(got) {
		t.Errorf("empty without option = %v, want NaN", got)
	}
	if got := NormalizeNumeric("", NumericOptions{TreatEmptyAsZero: true}); got != 0 {
		t.Errorf("empty with TreatEmptyAsZero = %v, want 0", got)
	}
	// Separator-only input collapses to empty.
	if got := NormalizeNumeric(" , ", NumericOptions{TreatEmptyAsZero: true}); got != 0 {
		t.Errorf("separators only with TreatEmptyAsZero = %v, want 0", got)
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric("1,234") {
		t.Error("expected 1,234 to be numeric")
	}
	if IsNumeric("12abc") {
		t.Error("expected 12abc to be non-numeric")
	}
	if IsNumeric("") {
		t.Error("expected empty string to be non-numeric")
	}
}
