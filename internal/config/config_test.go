package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Empty(t, cfg.BoundaryFile)
	assert.Equal(t, 4, cfg.LoadConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 28.0, cfg.PlotWidthCm)
	assert.Equal(t, 18.0, cfg.PlotHeightCm)
	assert.Equal(t, 96, cfg.PlotDPI)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("FARS_DATA_DIR", "/srv/fars/2024")
	t.Setenv("FARS_BOUNDARY_FILE", "/srv/fars/cb_2023_us_state_20m.shp")
	t.Setenv("FARS_LOAD_CONCURRENCY", "8")
	t.Setenv("FARS_LOG_LEVEL", "debug")
	t.Setenv("FARS_LOG_FORMAT", "text")
	t.Setenv("FARS_PLOT_WIDTH_CM", "40")
	t.Setenv("FARS_PLOT_HEIGHT_CM", "25")
	t.Setenv("FARS_PLOT_DPI", "150")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/fars/2024", cfg.DataDir)
	assert.Equal(t, "/srv/fars/cb_2023_us_state_20m.shp", cfg.BoundaryFile)
	assert.Equal(t, 8, cfg.LoadConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 40.0, cfg.PlotWidthCm)
	assert.Equal(t, 25.0, cfg.PlotHeightCm)
	assert.Equal(t, 150, cfg.PlotDPI)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		envVal  string
		errPart string
	}{
		{"concurrency zero", "FARS_LOAD_CONCURRENCY", "0", "FARS_LOAD_CONCURRENCY"},
		{"concurrency too high", "FARS_LOAD_CONCURRENCY", "64", "FARS_LOAD_CONCURRENCY"},
		{"concurrency not a number", "FARS_LOAD_CONCURRENCY", "many", "LOAD_CONCURRENCY"},
		{"bad log level", "FARS_LOG_LEVEL", "verbose", "FARS_LOG_LEVEL"},
		{"bad log format", "FARS_LOG_FORMAT", "yaml", "FARS_LOG_FORMAT"},
		{"zero plot width", "FARS_PLOT_WIDTH_CM", "0", "plot dimensions"},
		{"negative plot height", "FARS_PLOT_HEIGHT_CM", "-3", "plot dimensions"},
		{"zero dpi", "FARS_PLOT_DPI", "0", "FARS_PLOT_DPI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
