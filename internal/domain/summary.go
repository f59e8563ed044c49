package domain

import (
	"slices"
	"time"
)

// MonthYear keys a single cell of a monthly summary.
type MonthYear struct {
	Month int
	Year  int
}

// MonthlySummary is a month-by-year grid of accident counts. Rows are the
// distinct months present anywhere in the tallied data (ascending) and
// columns the distinct years (ascending). A (month, year) combination with
// no accidents has no cell at all rather than a zero count, so absence of
// data stays distinguishable from a count of zero.
type MonthlySummary struct {
	GeneratedAt time.Time

	months []int
	years  []int
	counts map[MonthYear]int
}

// NewMonthlySummary organizes per-cell tallies into a sorted grid. An empty
// or nil tally map yields an empty summary, which is a valid result, not an
// error.
func NewMonthlySummary(tallies map[MonthYear]int) *MonthlySummary {
	s := &MonthlySummary{
		GeneratedAt: clock.Now(),
		counts:      make(map[MonthYear]int, len(tallies)),
	}
	monthSet := make(map[int]struct{})
	yearSet := make(map[int]struct{})
	for k, n := range tallies {
		s.counts[k] = n
		monthSet[k.Month] = struct{}{}
		yearSet[k.Year] = struct{}{}
	}
	for m := range monthSet {
		s.months = append(s.months, m)
	}
	for y := range yearSet {
		s.years = append(s.years, y)
	}
	slices.Sort(s.months)
	slices.Sort(s.years)
	return s
}

// Months returns the summary's month rows, ascending.
func (s *MonthlySummary) Months() []int { return slices.Clone(s.months) }

// Years returns the summary's year columns, ascending.
func (s *MonthlySummary) Years() []int { return slices.Clone(s.years) }

// Count returns the accident count for a (month, year) cell. ok is false
// when the combination never occurred in the data: an undefined cell, not
// a zero.
func (s *MonthlySummary) Count(month, year int) (int, bool) {
	n, ok := s.counts[MonthYear{Month: month, Year: year}]
	return n, ok
}

// Empty reports whether the summary has no cells: no requested year
// contributed any rows.
func (s *MonthlySummary) Empty() bool { return len(s.counts) == 0 }
