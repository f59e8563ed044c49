package file

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

// Loader reads accident CSV files from the local filesystem into typed
// tables. It implements pipeline.TableLoader.
//
// Nothing is cached: every Load re-reads and re-parses the file, so callers
// always see the file's current contents.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a filesystem loader.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// Load reads one accident file into a table. Compression is chosen by file
// extension (.bz2, .gz, anything else is read as plain CSV). A missing file
// is reported as *domain.FileNotFoundError; a present file that cannot be
// parsed, or that lacks a required column, is an error and never yields a
// partial table. The file handle is closed on every path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		l.metrics.LoadFailures.Inc()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	tbl, err := l.parse(f, path)
	if err != nil {
		l.metrics.LoadFailures.Inc()
		return nil, err
	}

	l.metrics.TablesLoaded.Inc()
	l.metrics.RowsLoaded.Add(float64(tbl.NumRows()))
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Debug("loaded accident records",
		"path", path,
		"rows", tbl.NumRows(),
		"columns", len(tbl.ColumnNames()),
	)
	return tbl, nil
}

// parse decompresses, reads and types the CSV, then validates the required
// accident columns so later stages cannot trip over an absent column.
func (l *Loader) parse(f *os.File, path string) (*domain.Table, error) {
	var r io.Reader
	switch filepath.Ext(path) {
	case ".bz2":
		r = bzip2.NewReader(f)
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	default:
		r = f
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parse %s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// A UTF-8 byte order mark glued to the first header cell would otherwise
	// make the STATE column unfindable.
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		records = append(records, rec)
	}

	cols := make([]domain.Column, len(header))
	for i, name := range header {
		cols[i] = buildColumn(strings.TrimSpace(name), i, records)
	}

	tbl, err := domain.NewTable(path, cols)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := domain.ValidateAccidentColumns(tbl); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tbl, nil
}

// buildColumn types one CSV column from its cells: integer if every present
// cell parses as an integer, float if every present cell parses as a number,
// string otherwise. Empty cells become missing markers and never force a
// column to string.
func buildColumn(name string, idx int, records [][]string) domain.Column {
	kind := domain.KindInt
	for _, rec := range records {
		cell := strings.TrimSpace(rec[idx])
		if cell == "" {
			continue
		}
		switch kind {
		case domain.KindInt:
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			kind = domain.KindFloat
			fallthrough
		case domain.KindFloat:
			if _, err := strconv.ParseFloat(cell, 64); err == nil {
				continue
			}
			kind = domain.KindString
		}
		if kind == domain.KindString {
			break
		}
	}

	col := domain.Column{Name: name, Kind: kind, Missing: make([]bool, len(records))}
	switch kind {
	case domain.KindInt:
		col.Ints = make([]int64, len(records))
	case domain.KindFloat:
		col.Floats = make([]float64, len(records))
	case domain.KindString:
		col.Strings = make([]string, len(records))
	}

	for row, rec := range records {
		cell := strings.TrimSpace(rec[idx])
		if cell == "" {
			col.Missing[row] = true
			continue
		}
		switch kind {
		case domain.KindInt:
			col.Ints[row], _ = strconv.ParseInt(cell, 10, 64)
		case domain.KindFloat:
			col.Floats[row], _ = strconv.ParseFloat(cell, 64)
		case domain.KindString:
			col.Strings[row] = cell
		}
	}
	return col
}
