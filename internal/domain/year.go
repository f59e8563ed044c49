package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Year identifies a FARS reporting year.
type Year int

// Filename returns the canonical accident-file name for the year,
// e.g. 2013 → "accident_2013.csv.bz2". Pure string formatting; whether the
// file exists is the loader's concern.
func (y Year) Filename() string {
	return fmt.Sprintf("accident_%d.csv.bz2", int(y))
}

// ParseYear converts textual user input to a Year. Fractional numeric input
// is truncated toward zero ("2013.7" → 2013); non-numeric input is an error.
func ParseYear(s string) (Year, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("parse year: empty input")
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return Year(n), nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse year %q: %w", s, err)
	}
	return Year(math.Trunc(f)), nil
}
