// Package exporter writes monthly fatality summaries to spreadsheet formats.
//
// Both formats lay the summary out as a pivot grid: one MONTH column
// followed by one column per year, months ascending down the rows. A
// month/year combination with no loaded data stays blank; a blank cell
// means "no data", which is not the same thing as a count of zero.
package exporter

import (
	"log/slog"
	"strconv"

	"github.com/couchcryptid/fars-analysis/internal/domain"
)

// Writer serializes monthly summaries for spreadsheet work.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a summary writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Options configures export behavior.
type Options struct {
	BOMPrefix bool // prepend a UTF-8 BOM so Excel detects the encoding
}

// summaryHeader returns the grid header: MONTH, then one label per year.
func summaryHeader(s *domain.MonthlySummary) []string {
	header := []string{domain.ColumnMonth}
	for _, year := range s.Years() {
		header = append(header, strconv.Itoa(year))
	}
	return header
}

// summaryRecords returns one record per month. Cells for month/year
// combinations the summary does not define are empty strings.
func summaryRecords(s *domain.MonthlySummary) [][]string {
	years := s.Years()
	records := make([][]string, 0, len(s.Months()))
	for _, month := range s.Months() {
		record := make([]string, 0, len(years)+1)
		record = append(record, strconv.Itoa(month))
		for _, year := range years {
			if n, ok := s.Count(month, year); ok {
				record = append(record, strconv.Itoa(n))
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}
	return records
}
