// Command validate performs integrity checks over a directory of accident
// data files: filename conventions, loadability through the real loader,
// categorical value ranges, and coordinate sanity. It exits non-zero when
// any phase fails, so it can gate fixture regeneration or a fresh data drop.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data/fixtures
//	go run ./cmd/validate -data-dir data/fixtures -years 2013,2014,2015
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/couchcryptid/fars-analysis/internal/adapter/file"
	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

// fileRe matches the accident data naming convention, compressed or not.
var fileRe = regexp.MustCompile(`^accident_(\d{4})\.csv(\.bz2|\.gz)?$`)

// rawYearColumn is the upstream YEAR column; the loader does not require it,
// but when present it must agree with the filename.
const rawYearColumn = "YEAR"

// unassignedStateCodes are codes inside the 1..56 range that have never been
// assigned to a state or territory.
var unassignedStateCodes = map[int]bool{3: true, 7: true, 14: true}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// accidentFile is one data file discovered in the data directory.
type accidentFile struct {
	name string
	path string
	year domain.Year
	tbl  *domain.Table
}

func main() {
	dataDir := flag.String("data-dir", "", "directory containing accident_<year>.csv.bz2 files")
	yearsFlag := flag.String("years", "", "comma-separated years that must be present (default: validate whatever is found)")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	var required []domain.Year
	if *yearsFlag != "" {
		var err error
		required, err = parseYearList(*yearsFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
	}

	if code := run(*dataDir, required); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string, required []domain.Year) int {
	fmt.Println("=== Accident Data Integrity Validation ===")
	fmt.Println()

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read data directory: %v\n", err)
		return 1
	}

	files, inventory := scanEntries(dataDir, entries, required)
	loaded, loadability := loadFiles(files)

	phases := []*phase{
		inventory,
		loadability,
		validateRanges(loaded),
		validateCoordinates(loaded),
		validateYearColumn(loaded),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-38s %s\n", p.name, status)
	}

	fmt.Println()
	totalRows := 0
	for _, f := range loaded {
		totalRows += f.tbl.NumRows()
	}
	fmt.Printf("Files: %d, rows: %d\n", len(loaded), totalRows)

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: File Inventory ──
// Checks naming conventions and that every required year is covered.

func scanEntries(dataDir string, entries []os.DirEntry, required []domain.Year) ([]*accidentFile, *phase) {
	p := &phase{name: "Phase 1: File Inventory"}

	var files []*accidentFile
	found := map[domain.Year]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		m := fileRe.FindStringSubmatch(name)
		if m == nil {
			if strings.HasPrefix(name, "accident_") {
				p.errorf("%s: does not match accident_<year>.csv[.bz2|.gz]", name)
			}
			continue
		}
		year, _ := domain.ParseYear(m[1]) // four digits always parse
		if found[year] {
			p.errorf("%s: duplicate data for year %d", name, int(year))
			continue
		}
		found[year] = true
		files = append(files, &accidentFile{name: name, path: filepath.Join(dataDir, name), year: year})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].year < files[j].year })

	if len(files) == 0 {
		p.errorf("no accident data files found in %s", dataDir)
	}
	for _, y := range required {
		if !found[y] {
			p.errorf("required year %d: %s not found", int(y), y.Filename())
		}
	}
	return files, p
}

// ── Phase 2: Loadability ──
// Runs every file through the real loader so validation matches what the
// summarizing and mapping paths will actually accept.

func loadFiles(files []*accidentFile) ([]*accidentFile, *phase) {
	p := &phase{name: "Phase 2: Loadability"}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loader := file.NewLoader(logger, observability.NewMetrics())

	var loaded []*accidentFile
	ctx := context.Background()
	for _, f := range files {
		tbl, err := loader.Load(ctx, f.path)
		if err != nil {
			p.errorf("%s: %v", f.name, err)
			continue
		}
		f.tbl = tbl
		loaded = append(loaded, f)
	}
	return loaded, p
}

// ── Phase 3: Value Ranges ──
// MONTH must be 1..12 and STATE an assigned code.

func validateRanges(files []*accidentFile) *phase {
	p := &phase{name: "Phase 3: Value Ranges (MONTH, STATE)"}

	for _, f := range files {
		for row := 0; row < f.tbl.NumRows(); row++ {
			line := row + 2 // header is line 1
			if m, ok := f.tbl.IntAt(domain.ColumnMonth, row); !ok {
				p.errorf("%s line %d: MONTH is missing", f.name, line)
			} else if m < 1 || m > 12 {
				p.errorf("%s line %d: MONTH %d outside 1..12", f.name, line, m)
			}

			s, ok := f.tbl.IntAt(domain.ColumnState, row)
			switch {
			case !ok:
				p.errorf("%s line %d: STATE is missing", f.name, line)
			case s < 1 || s > 56 || unassignedStateCodes[int(s)]:
				p.errorf("%s line %d: STATE %d is not an assigned code", f.name, line, s)
			}
		}
	}
	return p
}

// ── Phase 4: Coordinate Sanity ──
// Sentinels must come in pairs, and real positions must fall inside the
// jurisdictions the data covers.

func plausibleLon(v float64) bool {
	// The far Aleutians sit east of the antimeridian.
	return (v >= -180 && v <= -60) || (v >= 170 && v <= 180)
}

func plausibleLat(v float64) bool { return v >= 15 && v <= 72 }

func validateCoordinates(files []*accidentFile) *phase {
	p := &phase{name: "Phase 4: Coordinate Sanity"}

	sentinels := 0
	for _, f := range files {
		for row := 0; row < f.tbl.NumRows(); row++ {
			line := row + 2
			lon, okLon := f.tbl.FloatAt(domain.ColumnLongitude, row)
			lat, okLat := f.tbl.FloatAt(domain.ColumnLatitude, row)

			lonSentinel := okLon && lon > domain.LongitudeSentinel
			latSentinel := okLat && lat > domain.LatitudeSentinel
			switch {
			case lonSentinel && latSentinel:
				sentinels++
			case lonSentinel != latSentinel:
				p.errorf("%s line %d: unknown-position sentinel on one coordinate only", f.name, line)
			default:
				if okLon && !plausibleLon(lon) {
					p.errorf("%s line %d: LONGITUD %g outside plausible range", f.name, line, lon)
				}
				if okLat && !plausibleLat(lat) {
					p.errorf("%s line %d: LATITUDE %g outside plausible range", f.name, line, lat)
				}
			}
		}
	}

	if sentinels > 0 {
		fmt.Printf("  Note: %d row(s) use the unknown-position sentinels\n", sentinels)
	}
	return p
}

// ── Phase 5: YEAR vs Filename ──
// Older extracts omit the YEAR column; when present it must agree with the
// year encoded in the filename.

func validateYearColumn(files []*accidentFile) *phase {
	p := &phase{name: "Phase 5: YEAR vs Filename"}

	for _, f := range files {
		if !f.tbl.HasColumn(rawYearColumn) {
			continue
		}
		for row := 0; row < f.tbl.NumRows(); row++ {
			if y, ok := f.tbl.IntAt(rawYearColumn, row); ok && y != int64(f.year) {
				p.errorf("%s line %d: YEAR %d does not match filename year %d", f.name, row+2, y, int(f.year))
			}
		}
	}
	return p
}

// ── Helpers ──

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
