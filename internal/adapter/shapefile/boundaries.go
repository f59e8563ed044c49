// Package shapefile loads US state boundary geometry from Census
// cartographic boundary shapefiles (cb_<year>_us_state_<resolution>), the
// distribution whose STATEFP attribute carries the same FIPS coding as the
// accident data's STATE column. It implements render.BoundaryProvider.
package shapefile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// stateRecord mirrors the attribute columns of a Census state boundary row.
// Field names must match the DBF column names for the decoder to fill them.
type stateRecord struct {
	geom.Polygonal
	STATEFP string // two-digit FIPS code, zero padded ("01")
	STUSPS  string // postal abbreviation ("AL")
	NAME    string // full state name ("Alabama")
}

type stateShape struct {
	name string
	abbr string
	geom geom.Polygonal
}

// Index holds decoded state outlines keyed by numeric FIPS code.
type Index struct {
	states map[int]stateShape
}

// Open decodes the shapefile at path into an index. Rows whose STATEFP is
// not numeric are skipped with a warning; a file yielding no states at all
// is an error.
func Open(path string, logger *slog.Logger) (*Index, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("open boundary shapefile %s: %w", path, err)
	}
	defer d.Close()

	idx := &Index{states: make(map[int]stateShape)}
	for {
		var rec stateRecord
		if more := d.DecodeRow(&rec); !more {
			break
		}
		fips, err := strconv.Atoi(strings.TrimSpace(rec.STATEFP))
		if err != nil {
			logger.Warn("skipping boundary row with non-numeric STATEFP",
				"statefp", rec.STATEFP, "name", rec.NAME)
			continue
		}
		idx.states[fips] = stateShape{name: rec.NAME, abbr: rec.STUSPS, geom: rec.Polygonal}
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("decode boundary shapefile %s: %w", path, err)
	}
	if len(idx.states) == 0 {
		return nil, fmt.Errorf("boundary shapefile %s holds no state rows", path)
	}

	logger.Debug("loaded state boundaries", "path", path, "states", len(idx.states))
	return idx, nil
}

// StateBoundary returns the outline geometry for a FIPS code.
func (i *Index) StateBoundary(fips int) (geom.Polygonal, bool) {
	s, ok := i.states[fips]
	if !ok {
		return nil, false
	}
	return s.geom, true
}

// StateName returns the full state name for a FIPS code.
func (i *Index) StateName(fips int) (string, bool) {
	s, ok := i.states[fips]
	if !ok {
		return "", false
	}
	return s.name, true
}

// Len returns the number of indexed states.
func (i *Index) Len() int { return len(i.states) }
