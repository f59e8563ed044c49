// Command genfixture writes synthetic accident data fixtures in the
// accident_<year>.csv.bz2 layout the loader expects. Each year is generated
// from a rand source seeded with the year itself, so reruns produce the same
// rows and test assertions stay stable.
//
// Usage:
//
//	go run ./cmd/genfixture -out-dir data/fixtures -years 2013,2014,2015
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"

	"github.com/couchcryptid/fars-analysis/internal/domain"
)

// header mirrors the column subset of the published accident files that the
// rest of the module cares about, plus a few bystander columns so fixtures
// exercise the "ignore unknown columns" path.
var header = []string{
	domain.ColumnState, "ST_CASE", domain.ColumnMonth, "DAY", "YEAR", "HOUR",
	domain.ColumnLongitude, domain.ColumnLatitude, "FATALS", "DRUNK_DR",
}

// stateBox bounds the coordinates generated for one state so plotted
// fixtures land roughly inside the right outline.
type stateBox struct {
	fips           int
	name           string
	weight         int
	minLon, maxLon float64
	minLat, maxLat float64
}

var stateBoxes = []stateBox{
	{fips: 1, name: "Alabama", weight: 5, minLon: -88.4, maxLon: -85.1, minLat: 30.3, maxLat: 34.9},
	{fips: 6, name: "California", weight: 17, minLon: -124.3, maxLon: -114.2, minLat: 32.6, maxLat: 41.9},
	{fips: 12, name: "Florida", weight: 15, minLon: -87.5, maxLon: -80.1, minLat: 24.6, maxLat: 30.9},
	{fips: 13, name: "Georgia", weight: 8, minLon: -85.6, maxLon: -80.9, minLat: 30.4, maxLat: 34.9},
	{fips: 17, name: "Illinois", weight: 6, minLon: -91.4, maxLon: -87.1, minLat: 37.0, maxLat: 42.4},
	{fips: 36, name: "New York", weight: 6, minLon: -79.7, maxLon: -72.0, minLat: 40.5, maxLat: 45.0},
	{fips: 48, name: "Texas", weight: 18, minLon: -106.5, maxLon: -93.6, minLat: 26.0, maxLat: 36.4},
	{fips: 56, name: "Wyoming", weight: 1, minLon: -111.0, maxLon: -104.1, minLat: 41.0, maxLat: 44.9},
}

// days per month, used to weight MONTH draws.
var monthWeights = []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write accident_<year>.csv.bz2 files into")
	yearsFlag := flag.String("years", "2013,2014,2015", "comma-separated years to generate")
	rows := flag.Int("rows", 500, "accident rows per year")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	years, err := parseYearList(*yearsFlag)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var total fixtureStats
	for _, year := range years {
		stats, err := writeYear(*outDir, year, *rows)
		if err != nil {
			return fmt.Errorf("generating %s: %w", year.Filename(), err)
		}
		log.Printf("%d: %d rows", int(year), stats.rows)
		total.merge(stats)
	}

	printStats(total)
	return nil
}

func writeYear(outDir string, year domain.Year, rows int) (fixtureStats, error) {
	stats := newFixtureStats()
	r := rand.New(rand.NewSource(int64(year)))
	stateSeq := map[int]int{}

	path := filepath.Join(outDir, year.Filename())
	f, err := os.Create(path)
	if err != nil {
		return stats, fmt.Errorf("create: %w", err)
	}
	defer f.Close()

	zw, err := bzip2.NewWriter(f, nil)
	if err != nil {
		return stats, fmt.Errorf("bzip2 writer: %w", err)
	}

	cw := csv.NewWriter(zw)
	if err := cw.Write(header); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		if err := cw.Write(makeRow(r, year, i, stateSeq, &stats)); err != nil {
			return stats, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, fmt.Errorf("flush csv: %w", err)
	}
	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("close bzip2 stream: %w", err)
	}
	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("close: %w", err)
	}
	return stats, nil
}

func makeRow(r *rand.Rand, year domain.Year, i int, stateSeq map[int]int, stats *fixtureStats) []string {
	box := pickState(r)
	stateSeq[box.fips]++
	month := pickWeighted(r, monthWeights) + 1

	lon := strconv.FormatFloat(box.minLon+r.Float64()*(box.maxLon-box.minLon), 'f', 4, 64)
	lat := strconv.FormatFloat(box.minLat+r.Float64()*(box.maxLat-box.minLat), 'f', 4, 64)
	switch {
	case i%40 == 39:
		// Unknown position, encoded the way the published files do it.
		lon, lat = "999.9999", "99.9999"
		stats.sentinels++
	case i%97 == 96:
		lon = ""
		stats.missingLon++
	}

	hour := strconv.Itoa(r.Intn(24))
	if i%25 == 24 {
		hour = "99" // unknown hour marker
	}

	fatals := 1
	if r.Intn(100) < 12 {
		fatals = 2
	}
	drunk := 0
	if r.Intn(100) < 28 {
		drunk = 1
	}

	stats.rows++
	stats.stateCounts[box.fips]++
	stats.monthCounts[month]++

	return []string{
		strconv.Itoa(box.fips),
		strconv.Itoa(box.fips*10000 + stateSeq[box.fips]),
		strconv.Itoa(month),
		strconv.Itoa(r.Intn(28) + 1),
		strconv.Itoa(int(year)),
		hour,
		lon,
		lat,
		strconv.Itoa(fatals),
		strconv.Itoa(drunk),
	}
}

func pickState(r *rand.Rand) stateBox {
	total := 0
	for _, b := range stateBoxes {
		total += b.weight
	}
	n := r.Intn(total)
	for _, b := range stateBoxes {
		n -= b.weight
		if n < 0 {
			return b
		}
	}
	return stateBoxes[len(stateBoxes)-1]
}

func pickWeighted(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := r.Intn(total)
	for i, w := range weights {
		n -= w
		if n < 0 {
			return i
		}
	}
	return len(weights) - 1
}

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

// fixtureStats aggregates counts for printStats reporting.
type fixtureStats struct {
	rows        int
	sentinels   int
	missingLon  int
	stateCounts map[int]int
	monthCounts map[int]int
}

func newFixtureStats() fixtureStats {
	return fixtureStats{stateCounts: map[int]int{}, monthCounts: map[int]int{}}
}

func (s *fixtureStats) merge(o fixtureStats) {
	if s.stateCounts == nil {
		*s = newFixtureStats()
	}
	s.rows += o.rows
	s.sentinels += o.sentinels
	s.missingLon += o.missingLon
	for k, v := range o.stateCounts {
		s.stateCounts[k] += v
	}
	for k, v := range o.monthCounts {
		s.monthCounts[k] += v
	}
}

type stateCount struct {
	fips  int
	count int
}

func printStats(stats fixtureStats) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total rows: %d\n", stats.rows)
	fmt.Printf("Sentinel coordinate rows: %d\n", stats.sentinels)
	fmt.Printf("Rows with empty LONGITUD: %d\n", stats.missingLon)

	sc := make([]stateCount, 0, len(stats.stateCounts))
	for fips, c := range stats.stateCounts {
		sc = append(sc, stateCount{fips, c})
	}
	sort.Slice(sc, func(i, j int) bool { return sc[i].count > sc[j].count })
	fmt.Printf("States (%d):", len(sc))
	for _, s := range sc {
		fmt.Printf(" %s=%d", stateName(s.fips), s.count)
	}
	fmt.Println()

	fmt.Print("By month:")
	for m := 1; m <= 12; m++ {
		fmt.Printf(" %d=%d", m, stats.monthCounts[m])
	}
	fmt.Println()
}

func stateName(fips int) string {
	for _, b := range stateBoxes {
		if b.fips == fips {
			return fmt.Sprintf("%s(%d)", b.name, fips)
		}
	}
	return strconv.Itoa(fips)
}
