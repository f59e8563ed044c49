package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/fars-analysis/internal/domain"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the summary grid to dst.
func (w *Writer) WriteCSV(dst io.Writer, s *domain.MonthlySummary, opts Options) error {
	if s == nil {
		return fmt.Errorf("write summary csv: nil summary")
	}

	if opts.BOMPrefix {
		if _, err := dst.Write(utf8BOM); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}

	cw := csv.NewWriter(dst)
	if err := cw.Write(summaryHeader(s)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, record := range summaryRecords(s) {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record for month %s: %w", record[0], err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the summary grid to path, creating parent
// directories as needed. An existing file is truncated.
func (w *Writer) WriteCSVFile(path string, s *domain.MonthlySummary, opts Options) error {
	if s == nil {
		return fmt.Errorf("write summary csv: nil summary")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := w.WriteCSV(f, s, opts); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	w.logger.Info("wrote summary csv",
		"path", path,
		"months", len(s.Months()),
		"years", len(s.Years()),
	)
	return nil
}
