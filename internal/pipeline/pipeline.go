package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
	"github.com/couchcryptid/fars-analysis/internal/render"
)

// TableLoader loads one accident file into a typed table.
type TableLoader interface {
	Load(ctx context.Context, path string) (*domain.Table, error)
}

// StateMapRenderer draws one state's accidents onto a canvas.
type StateMapRenderer interface {
	RenderStateMap(dc draw.Canvas, tbl *domain.Table, state int) (*render.Result, error)
}

// YearResult is the tagged outcome of one year in a multi-year load.
// Exactly one of Table and Err is set; Table holds the (MONTH, year)
// projection, not the full accident table.
type YearResult struct {
	Year  domain.Year
	Table *domain.Table
	Err   error
}

// Failed reports whether the year's load failed.
func (r YearResult) Failed() bool { return r.Err != nil }

// Pipeline wires the loader and renderer into the analysis operations.
type Pipeline struct {
	loader      TableLoader
	renderer    StateMapRenderer
	logger      *slog.Logger
	metrics     *observability.Metrics
	dataDir     string
	concurrency int
}

// New creates a Pipeline. dataDir is where accident files live; concurrency
// bounds parallel file reads in multi-year requests and must be at least 1.
func New(loader TableLoader, renderer StateMapRenderer, logger *slog.Logger, metrics *observability.Metrics, dataDir string, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		loader:      loader,
		renderer:    renderer,
		logger:      logger,
		metrics:     metrics,
		dataDir:     dataDir,
		concurrency: concurrency,
	}
}

// LoadYear loads the full accident table for one year from the data
// directory.
func (p *Pipeline) LoadYear(ctx context.Context, year domain.Year) (*domain.Table, error) {
	return p.loader.Load(ctx, p.yearPath(year))
}

// LoadYears loads each requested year's (MONTH, year) projection. The result
// always has the same length and order as years; a year whose file is
// missing or malformed gets a warning log and an errored YearResult, never
// aborts the others. Files are read concurrently up to the configured bound;
// result ordering is positional, so concurrency never reorders anything.
func (p *Pipeline) LoadYears(ctx context.Context, years []domain.Year) []YearResult {
	results := make([]YearResult, len(years))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, year := range years {
		g.Go(func() error {
			results[i] = p.loadYearResult(ctx, year)
			return nil
		})
	}
	// Workers never return an error; per-year failures live in the results.
	_ = g.Wait()

	return results
}

func (p *Pipeline) loadYearResult(ctx context.Context, year domain.Year) YearResult {
	tbl, err := p.loader.Load(ctx, p.yearPath(year))
	if err == nil {
		var proj *domain.Table
		if proj, err = projectMonthYear(tbl, year); err == nil {
			p.metrics.YearLoads.WithLabelValues("ok").Inc()
			return YearResult{Year: year, Table: proj}
		}
	}

	p.logger.Warn("invalid year", "year", int(year), "error", err)
	p.metrics.YearLoads.WithLabelValues("failed").Inc()
	return YearResult{Year: year, Err: fmt.Errorf("load year %d: %w", int(year), err)}
}

// SummarizeYears loads the requested years and tallies their accidents into
// a month-by-year count grid. Failed years are already logged by LoadYears
// and simply contribute no column; requesting nothing, or only years that
// fail, yields an empty summary.
func (p *Pipeline) SummarizeYears(ctx context.Context, years []domain.Year) *domain.MonthlySummary {
	s := Summarize(p.LoadYears(ctx, years))
	p.metrics.SummariesBuilt.Inc()
	p.logger.Debug("built monthly summary",
		"years_requested", len(years),
		"year_columns", len(s.Years()),
	)
	return s
}

// RenderStateMap loads one year's accident table and draws the given state's
// map onto dc.
func (p *Pipeline) RenderStateMap(ctx context.Context, dc draw.Canvas, state int, year domain.Year) (*render.Result, error) {
	tbl, err := p.loader.Load(ctx, p.yearPath(year))
	if err != nil {
		return nil, fmt.Errorf("render state map for %d: %w", int(year), err)
	}
	return p.renderer.RenderStateMap(dc, tbl, state)
}

func (p *Pipeline) yearPath(year domain.Year) string {
	return filepath.Join(p.dataDir, year.Filename())
}
