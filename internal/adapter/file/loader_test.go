package file

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	bzip2w "github.com/dsnet/compress/bzip2"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

const sampleCSV = `STATE,ST_CASE,MONTH,DAY,YEAR,TWAY_ID,LATITUDE,LONGITUD,FATALS
1,10001,1,15,2013,I-65,32.4329,-86.0897,1
1,10002,1,20,2013,SR-14,33.1210,-86.5512,2
2,20001,2,3,2013,,61.1950,-149.9003,1
56,50001,12,24,2013,I-80,41.1400,-104.8202,1
`

// --- helpers ---

func newTestLoader() *Loader {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(logger, observability.NewMetricsForTesting())
}

func writePlain(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeBZ2(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := bzip2w.NewWriter(f, nil)
	require.NoError(t, err)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func writeGZ(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// --- tests ---

func TestLoaderLoad(t *testing.T) {
	loader := newTestLoader()
	ctx := context.Background()

	tests := []struct {
		name  string
		write func(t *testing.T, dir string) string
	}{
		{"bzip2 compressed", func(t *testing.T, dir string) string {
			return writeBZ2(t, dir, "accident_2013.csv.bz2", sampleCSV)
		}},
		{"gzip compressed", func(t *testing.T, dir string) string {
			return writeGZ(t, dir, "accident_2013.csv.gz", sampleCSV)
		}},
		{"plain csv", func(t *testing.T, dir string) string {
			return writePlain(t, dir, "accident_2013.csv", sampleCSV)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.write(t, t.TempDir())

			tbl, err := loader.Load(ctx, path)
			require.NoError(t, err)

			assert.Equal(t, 4, tbl.NumRows())
			assert.Equal(t, path, tbl.Source)

			state, ok := tbl.IntAt("STATE", 3)
			require.True(t, ok)
			assert.Equal(t, int64(56), state)

			lat, ok := tbl.FloatAt("LATITUDE", 0)
			require.True(t, ok)
			assert.InDelta(t, 32.4329, lat, 1e-9)

			way, ok := tbl.StringAt("TWAY_ID", 0)
			require.True(t, ok)
			assert.Equal(t, "I-65", way)

			assert.True(t, tbl.IsMissing("TWAY_ID", 2), "empty cell is missing, not empty string")
		})
	}
}

func TestLoaderColumnTyping(t *testing.T) {
	loader := newTestLoader()
	path := writePlain(t, t.TempDir(), "accident_2013.csv",
		"STATE,MONTH,LATITUDE,LONGITUD,MILEPT,TWAY_ID\n"+
			"1,1,32.4,-86.1,12,I-65\n"+
			"1,2,33.0,-86.5,,SR-14\n"+
			"1,3,33.9,999.9999,3.5,US-31\n")

	tbl, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	intCol, ok := tbl.Column("STATE")
	require.True(t, ok)
	assert.Equal(t, domain.KindInt, intCol.Kind)

	floatCol, ok := tbl.Column("LATITUDE")
	require.True(t, ok)
	assert.Equal(t, domain.KindFloat, floatCol.Kind)

	t.Run("empty cells keep a numeric column numeric", func(t *testing.T) {
		milept, ok := tbl.Column("MILEPT")
		require.True(t, ok)
		assert.Equal(t, domain.KindFloat, milept.Kind, "12 then 3.5 with a gap widens to float")
		assert.True(t, tbl.IsMissing("MILEPT", 1))

		v, ok := tbl.FloatAt("MILEPT", 2)
		require.True(t, ok)
		assert.InDelta(t, 3.5, v, 1e-9)
	})

	t.Run("sentinel values parse as ordinary numbers", func(t *testing.T) {
		lon, ok := tbl.FloatAt("LONGITUD", 2)
		require.True(t, ok)
		assert.InDelta(t, 999.9999, lon, 1e-9, "sanitization is a separate step, not the loader's")
	})
}

func TestLoaderMissingFile(t *testing.T) {
	loader := newTestLoader()
	path := filepath.Join(t.TempDir(), "accident_2099.csv.bz2")

	tbl, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, tbl)

	var fnf *domain.FileNotFoundError
	require.True(t, errors.As(err, &fnf))
	assert.Equal(t, path, fnf.Path)
	assert.Contains(t, err.Error(), path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoaderRejectsBadInput(t *testing.T) {
	loader := newTestLoader()
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"empty file", "", "empty file"},
		{"missing required columns", "STATE,MONTH,DAY\n1,1,15\n", "LONGITUD"},
		{"ragged row", "STATE,MONTH,LONGITUD,LATITUDE\n1,1,-86.1\n", "record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePlain(t, t.TempDir(), "accident_2013.csv", tt.content)

			tbl, err := loader.Load(ctx, path)
			require.Error(t, err)
			assert.Nil(t, tbl, "no partial table on failure")
			assert.Contains(t, err.Error(), tt.errPart)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoaderHeaderOnlyFile(t *testing.T) {
	loader := newTestLoader()
	path := writePlain(t, t.TempDir(), "accident_2013.csv", "STATE,MONTH,LONGITUD,LATITUDE\n")

	tbl, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.True(t, tbl.HasColumn("MONTH"))
}

func TestLoaderStripsByteOrderMark(t *testing.T) {
	loader := newTestLoader()
	path := writePlain(t, t.TempDir(), "accident_2013.csv",
		"\uFEFFSTATE,MONTH,LONGITUD,LATITUDE\n1,1,-86.1,32.4\n")

	tbl, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("STATE"))
}

func TestLoaderRereadsEveryCall(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	loader := newTestLoader()
	ctx := context.Background()
	dir := t.TempDir()
	path := writeBZ2(t, dir, "accident_2013.csv.bz2", sampleCSV)

	first, err := loader.Load(ctx, path)
	require.NoError(t, err)
	second, err := loader.Load(ctx, path)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(domain.Table{})); diff != "" {
		t.Errorf("repeated loads of an unchanged file differ (-first +second):\n%s", diff)
	}

	t.Run("file changes are visible on the next load", func(t *testing.T) {
		writeBZ2(t, dir, "accident_2013.csv.bz2",
			"STATE,MONTH,LONGITUD,LATITUDE\n1,6,-86.1,32.4\n")

		third, err := loader.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, 1, third.NumRows(), "no caching between calls")
	})
}

func TestLoaderCancelledContext(t *testing.T) {
	loader := newTestLoader()
	path := writePlain(t, t.TempDir(), "accident_2013.csv", sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}
