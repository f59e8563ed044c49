package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/fars-analysis/internal/domain"
)

// summarySheet is the name of the single worksheet in exported workbooks.
const summarySheet = "Summary"

// WriteXLSX writes the summary grid to an Excel workbook at path,
// creating parent directories as needed. Undefined cells are left
// blank rather than filled with zeros.
func (w *Writer) WriteXLSX(path string, s *domain.MonthlySummary) error {
	if s == nil {
		return fmt.Errorf("write summary workbook: nil summary")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("name summary sheet: %w", err)
	}

	for i, label := range summaryHeader(s) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, label)
	}

	years := s.Years()
	for r, month := range s.Months() {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		f.SetCellValue(summarySheet, cell, month)
		for c, year := range years {
			n, ok := s.Count(month, year)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			f.SetCellValue(summarySheet, cell, n)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(years) + 1)
	f.SetColWidth(summarySheet, "A", lastCol, 10)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	w.logger.Info("wrote summary workbook",
		"path", path,
		"months", len(s.Months()),
		"years", len(years),
	)
	return nil
}
