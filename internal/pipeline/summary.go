package pipeline

import (
	"github.com/couchcryptid/fars-analysis/internal/domain"
)

// projectMonthYear reduces a full accident table to its MONTH column plus a
// constant lowercase year column, the shape summarization consumes.
func projectMonthYear(tbl *domain.Table, year domain.Year) (*domain.Table, error) {
	proj, err := tbl.Select(domain.ColumnMonth)
	if err != nil {
		return nil, err
	}
	years := make([]int64, proj.NumRows())
	for i := range years {
		years[i] = int64(year)
	}
	return proj.WithColumn(domain.Column{Name: domain.ColumnYear, Kind: domain.KindInt, Ints: years})
}

// Summarize tallies accident rows by (month, year) across the successful
// results and pivots them into a monthly summary. Failed years contribute
// nothing; rows whose MONTH cell is missing are skipped. When no result
// carries any rows the summary is empty.
func Summarize(results []YearResult) *domain.MonthlySummary {
	tallies := make(map[domain.MonthYear]int)
	for _, res := range results {
		if res.Failed() || res.Table == nil {
			continue
		}
		for row := 0; row < res.Table.NumRows(); row++ {
			month, okM := res.Table.IntAt(domain.ColumnMonth, row)
			year, okY := res.Table.IntAt(domain.ColumnYear, row)
			if !okM || !okY {
				continue
			}
			tallies[domain.MonthYear{Month: int(month), Year: int(year)}]++
		}
	}
	return domain.NewMonthlySummary(tallies)
}
