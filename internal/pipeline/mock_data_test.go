package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
	"github.com/couchcryptid/fars-analysis/internal/render"
)

// --- mocks ---

// mockTableLoader serves canned tables keyed by path. Paths with neither a
// table nor an error behave like missing files.
type mockTableLoader struct {
	tables map[string]*domain.Table
	errs   map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *mockTableLoader) Load(_ context.Context, path string) (*domain.Table, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()

	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if tbl, ok := m.tables[path]; ok {
		return tbl, nil
	}
	return nil, &domain.FileNotFoundError{Path: path}
}

func (m *mockTableLoader) loadedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

type mockRenderer struct {
	result *render.Result
	err    error

	renderCalls int
	lastTable   *domain.Table
	lastState   int
}

func (m *mockRenderer) RenderStateMap(_ draw.Canvas, tbl *domain.Table, state int) (*render.Result, error) {
	m.renderCalls++
	m.lastTable = tbl
	m.lastState = state
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// --- fixture builders ---

// makeAccidentTable builds a full-width accident table with one row per
// entry in months, all in state 1 with valid coordinates.
func makeAccidentTable(t *testing.T, source string, months []int64) *domain.Table {
	t.Helper()
	n := len(months)
	states := make([]int64, n)
	lons := make([]float64, n)
	lats := make([]float64, n)
	for i := range months {
		states[i] = 1
		lons[i] = -86.1 - float64(i)*0.001
		lats[i] = 32.4 + float64(i)*0.001
	}
	tbl, err := domain.NewTable(source, []domain.Column{
		{Name: "STATE", Kind: domain.KindInt, Ints: states},
		{Name: "MONTH", Kind: domain.KindInt, Ints: months},
		{Name: "LONGITUD", Kind: domain.KindFloat, Floats: lons},
		{Name: "LATITUDE", Kind: domain.KindFloat, Floats: lats},
	})
	require.NoError(t, err)
	return tbl
}

// monthRows expands a month→count map into one table row per accident, in
// month order.
func monthRows(counts map[int]int) []int64 {
	var months []int64
	for m := 1; m <= 12; m++ {
		for i := 0; i < counts[m]; i++ {
			months = append(months, int64(m))
		}
	}
	return months
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}
