// Package render draws per-state accident maps onto caller-supplied
// canvases. The drawing target is always an explicit parameter; nothing in
// this package owns a global plot device.
package render

import (
	"errors"
	"image/color"
	"log/slog"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

// BoundaryProvider supplies state outline geometry keyed by FIPS code.
// adapter/shapefile implements it; rendering works without one.
type BoundaryProvider interface {
	StateBoundary(fips int) (geom.Polygonal, bool)
}

// Result reports what a render produced.
type Result struct {
	State   int
	Rows    int          // accident rows matching the state, before sanitization
	Points  int          // markers actually drawn
	Plotted bool         // false when there was nothing to draw
	Bounds  *geom.Bounds // sanitized coordinate extent, nil when not plotted
}

// Marker and outline styling, fixed for every map.
var (
	markerColor  = color.NRGBA{R: 0x1f, G: 0x1f, B: 0x1f, A: 0xff}
	markerRadius = vg.Points(1)
	outlineStyle = draw.LineStyle{Width: 0.25 * vg.Millimeter, Color: color.Black}
)

// Renderer draws accident scatter maps for a single state.
type Renderer struct {
	boundaries BoundaryProvider
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewRenderer creates a renderer. boundaries may be nil, in which case maps
// are drawn without state outlines.
func NewRenderer(boundaries BoundaryProvider, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{boundaries: boundaries, logger: logger, metrics: metrics}
}

// RenderStateMap draws the accidents of one state onto dc: the state outline
// (when boundary geometry is available) inside the bounding box of the
// sanitized coordinates, then one small marker per accident row. A state
// code absent from the table's STATE column is *domain.InvalidStateError.
// A state with no rows, or none with usable coordinates, draws nothing and
// reports Plotted=false; that outcome is a notice, not an error.
func (r *Renderer) RenderStateMap(dc draw.Canvas, tbl *domain.Table, state int) (*Result, error) {
	if tbl == nil {
		return nil, errors.New("render state map: nil table")
	}

	if !containsState(tbl, state) {
		r.metrics.MapRenders.WithLabelValues("error").Inc()
		return nil, &domain.InvalidStateError{Code: state}
	}

	subset := tbl.Filter(func(row int) bool {
		v, ok := tbl.IntAt(domain.ColumnState, row)
		return ok && v == int64(state)
	})

	result := &Result{State: state, Rows: subset.NumRows()}
	if subset.NumRows() == 0 {
		r.logger.Info("no accidents to plot", "state", state)
		r.metrics.MapRenders.WithLabelValues("empty").Inc()
		return result, nil
	}

	clean := domain.SanitizeCoordinates(subset)
	points := collectPoints(clean)
	if len(points) == 0 {
		r.logger.Info("no accidents to plot", "state", state, "reason", "no usable coordinates")
		r.metrics.MapRenders.WithLabelValues("empty").Inc()
		return result, nil
	}

	bounds := pointExtent(points)
	view := padded(bounds)
	m := carto.NewCanvas(view.Max.Y, view.Min.Y, view.Max.X, view.Min.X, dc)

	if r.boundaries != nil {
		if g, ok := r.boundaries.StateBoundary(state); ok {
			m.DrawVector(g, color.NRGBA{}, outlineStyle, draw.GlyphStyle{})
		} else {
			r.logger.Warn("no boundary geometry for state", "state", state)
		}
	}

	glyph := draw.GlyphStyle{Color: markerColor, Radius: markerRadius, Shape: draw.CircleGlyph{}}
	for _, pt := range points {
		m.DrawVector(pt, markerColor, draw.LineStyle{}, glyph)
	}

	result.Points = len(points)
	result.Plotted = true
	result.Bounds = bounds
	r.metrics.MapRenders.WithLabelValues("plotted").Inc()
	r.metrics.PointsPlotted.Observe(float64(len(points)))
	r.logger.Debug("rendered state map",
		"state", state,
		"rows", result.Rows,
		"points", result.Points,
	)
	return result, nil
}

func containsState(tbl *domain.Table, state int) bool {
	for _, v := range tbl.DistinctInts(domain.ColumnState) {
		if v == int64(state) {
			return true
		}
	}
	return false
}

// collectPoints gathers one (lon, lat) point per row where both coordinates
// survived sanitization.
func collectPoints(tbl *domain.Table) []geom.Point {
	pts := make([]geom.Point, 0, tbl.NumRows())
	for row := 0; row < tbl.NumRows(); row++ {
		lon, okLon := tbl.FloatAt(domain.ColumnLongitude, row)
		lat, okLat := tbl.FloatAt(domain.ColumnLatitude, row)
		if !okLon || !okLat {
			continue
		}
		pts = append(pts, geom.Point{X: lon, Y: lat})
	}
	return pts
}

func pointExtent(points []geom.Point) *geom.Bounds {
	b := geom.NewBounds()
	for _, pt := range points {
		b.Extend(pt.Bounds())
	}
	return b
}

// padded widens the view a few percent per side (at least 0.05°) so markers
// on the extent edge stay visible and a single point still spans an area.
func padded(b *geom.Bounds) *geom.Bounds {
	padX := math.Max((b.Max.X-b.Min.X)*0.05, 0.05)
	padY := math.Max((b.Max.Y-b.Min.Y)*0.05, 0.05)
	return &geom.Bounds{
		Min: geom.Point{X: b.Min.X - padX, Y: b.Min.Y - padY},
		Max: geom.Point{X: b.Max.X + padX, Y: b.Max.Y + padY},
	}
}
