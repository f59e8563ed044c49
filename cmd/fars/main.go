// Command fars summarizes and maps Fatality Analysis Reporting System
// accident data.
//
// Usage:
//
//	fars summary -years 2013,2014,2015 [-csv summary.csv] [-xlsx summary.xlsx]
//	fars map -state 1 -year 2013 [-out alabama_2013.png]
//
// Accident files are read from FARS_DATA_DIR (or -data-dir) and must follow
// the accident_<year>.csv.bz2 naming convention.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/fars-analysis/internal/adapter/file"
	"github.com/couchcryptid/fars-analysis/internal/adapter/shapefile"
	"github.com/couchcryptid/fars-analysis/internal/config"
	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/exporter"
	"github.com/couchcryptid/fars-analysis/internal/observability"
	"github.com/couchcryptid/fars-analysis/internal/pipeline"
	"github.com/couchcryptid/fars-analysis/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "summary":
		err = runSummary(ctx, cfg, logger, metrics, os.Args[2:])
	case "map":
		err = runMap(ctx, cfg, logger, metrics, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage:
  fars summary -years 2013,2014 [-data-dir DIR] [-csv FILE] [-xlsx FILE] [-bom]
  fars map -state FIPS -year YEAR [-data-dir DIR] [-out FILE]

Stable settings come from FARS_* environment variables (see internal/config);
flags select what a single invocation works on.
`)
}

func runSummary(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	yearsFlag := fs.String("years", "", "comma-separated years to summarize (e.g. 2013,2014,2015)")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory containing accident_<year>.csv.bz2 files")
	csvOut := fs.String("csv", "", "optional path for a CSV export of the summary")
	xlsxOut := fs.String("xlsx", "", "optional path for an Excel export of the summary")
	bom := fs.Bool("bom", false, "prefix the CSV export with a UTF-8 BOM for Excel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *yearsFlag == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -years")
	}
	years, err := parseYearList(*yearsFlag)
	if err != nil {
		return err
	}

	loader := file.NewLoader(logger, metrics)
	renderer := render.NewRenderer(nil, logger, metrics)
	p := pipeline.New(loader, renderer, logger, metrics, *dataDir, cfg.LoadConcurrency)

	summary := p.SummarizeYears(ctx, years)
	printSummary(os.Stdout, summary)

	w := exporter.NewWriter(logger)
	if *csvOut != "" {
		if err := w.WriteCSVFile(*csvOut, summary, exporter.Options{BOMPrefix: *bom}); err != nil {
			return err
		}
	}
	if *xlsxOut != "" {
		if err := w.WriteXLSX(*xlsxOut, summary); err != nil {
			return err
		}
	}
	return nil
}

func runMap(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, args []string) error {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	state := fs.Int("state", 0, "state FIPS code to map (e.g. 1 for Alabama)")
	yearFlag := fs.String("year", "", "year whose accidents to map")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory containing accident_<year>.csv.bz2 files")
	out := fs.String("out", "", "output PNG path (default state_<fips>_<year>.png)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *state == 0 || *yearFlag == "" {
		fs.Usage()
		return fmt.Errorf("missing required flags: -state, -year")
	}
	year, err := domain.ParseYear(*yearFlag)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = fmt.Sprintf("state_%02d_%d.png", *state, int(year))
	}

	// State outlines are optional (feature-flagged via FARS_BOUNDARY_FILE).
	var boundaries render.BoundaryProvider
	if cfg.BoundaryFile != "" {
		idx, err := shapefile.Open(cfg.BoundaryFile, logger)
		if err != nil {
			return fmt.Errorf("open boundary shapefile: %w", err)
		}
		boundaries = idx
		logger.Info("state boundaries enabled", "path", cfg.BoundaryFile, "states", idx.Len())
	} else {
		logger.Info("state boundaries disabled")
	}

	loader := file.NewLoader(logger, metrics)
	renderer := render.NewRenderer(boundaries, logger, metrics)
	p := pipeline.New(loader, renderer, logger, metrics, *dataDir, cfg.LoadConcurrency)

	img, dc := render.NewImageCanvas(render.Surface{
		WidthCm:  cfg.PlotWidthCm,
		HeightCm: cfg.PlotHeightCm,
		DPI:      cfg.PlotDPI,
	})

	result, err := p.RenderStateMap(ctx, dc, *state, year)
	if err != nil {
		return err
	}
	if !result.Plotted {
		fmt.Println("no accidents to plot")
		return nil
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()
	if err := render.WritePNG(img, f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", *out, err)
	}

	fmt.Printf("wrote %s (%d of %d rows had usable coordinates)\n", *out, result.Points, result.Rows)
	return nil
}

// parseYearList splits a comma-separated year list, tolerating spaces.
func parseYearList(s string) ([]domain.Year, error) {
	parts := strings.Split(s, ",")
	years := make([]domain.Year, 0, len(parts))
	for _, part := range parts {
		y, err := domain.ParseYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

// printSummary writes the month-by-year grid as aligned text. Cells with no
// data stay blank; a blank is "no data", not zero.
func printSummary(w io.Writer, s *domain.MonthlySummary) {
	years := s.Years()
	fmt.Fprintf(w, "%-6s", domain.ColumnMonth)
	for _, y := range years {
		fmt.Fprintf(w, "%8d", y)
	}
	fmt.Fprintln(w)
	for _, m := range s.Months() {
		fmt.Fprintf(w, "%-6d", m)
		for _, y := range years {
			if n, ok := s.Count(m, y); ok {
				fmt.Fprintf(w, "%8d", n)
			} else {
				fmt.Fprintf(w, "%8s", "")
			}
		}
		fmt.Fprintln(w)
	}
}
