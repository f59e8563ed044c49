package domain

import (
	"fmt"
	"strings"
)

// Names of the accident-file columns this package depends on. FARS headers
// are uppercase; LONGITUD loses its final E to the legacy 8-character limit.
const (
	ColumnMonth     = "MONTH"
	ColumnState     = "STATE"
	ColumnLongitude = "LONGITUD"
	ColumnLatitude  = "LATITUDE"

	// ColumnYear is the synthetic lowercase column the multi-year loader
	// appends to each per-year projection.
	ColumnYear = "year"
)

// RequiredColumns lists the columns every accident table must carry.
// Validation happens at load so later summarization and rendering cannot
// fail on an absent column far from the file that caused it.
var RequiredColumns = []string{ColumnMonth, ColumnState, ColumnLongitude, ColumnLatitude}

// Coordinate sentinel bounds. FARS marks unknown positions with out-of-range
// magic numbers (999.9999 longitude, 99.9999 latitude); anything beyond these
// bounds is an encoding, not a place.
const (
	LongitudeSentinel = 900.0
	LatitudeSentinel  = 90.0
)

// ValidateAccidentColumns checks that t carries every required accident
// column, reporting all absentees at once.
func ValidateAccidentColumns(t *Table) error {
	var missing []string
	for _, name := range RequiredColumns {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SanitizeCoordinates returns a copy of t in which coordinates beyond the
// sentinel bounds (LONGITUD above 900, LATITUDE above 90) are marked missing,
// removing them from map extents and plotted points. The input table is
// unchanged. Values exactly at a bound are kept.
func SanitizeCoordinates(t *Table) *Table {
	out := t.clone()
	markBeyond(out, ColumnLongitude, LongitudeSentinel)
	markBeyond(out, ColumnLatitude, LatitudeSentinel)
	return out
}

func markBeyond(t *Table, name string, limit float64) {
	i, ok := t.byName[name]
	if !ok {
		return
	}
	c := &t.cols[i]
	for row := 0; row < t.rows; row++ {
		if v, ok := c.floatAt(row); ok && v > limit {
			c.Missing[row] = true
		}
	}
}
