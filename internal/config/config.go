package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all settings, populated from FARS_-prefixed environment
// variables.
type Config struct {
	// DataDir is the directory holding accident_<year>.csv.bz2 files.
	DataDir string `envconfig:"DATA_DIR" default:"."`

	// BoundaryFile is an optional Census cartographic-boundary shapefile
	// (.shp) used to draw state outlines under plotted accidents. When empty,
	// maps are rendered without a base map.
	BoundaryFile string `envconfig:"BOUNDARY_FILE"`

	// LoadConcurrency bounds how many accident files a multi-year request
	// reads in parallel.
	LoadConcurrency int `envconfig:"LOAD_CONCURRENCY" default:"4"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Plot surface geometry for rendered maps.
	PlotWidthCm  float64 `envconfig:"PLOT_WIDTH_CM" default:"28"`
	PlotHeightCm float64 `envconfig:"PLOT_HEIGHT_CM" default:"18"`
	PlotDPI      int     `envconfig:"PLOT_DPI" default:"96"`
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is read first when present;
// real environment variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("fars", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.DataDir == "" {
		return nil, fmt.Errorf("FARS_DATA_DIR is required")
	}
	if cfg.LoadConcurrency < 1 || cfg.LoadConcurrency > 32 {
		return nil, fmt.Errorf("FARS_LOAD_CONCURRENCY must be between 1 and 32, got %d", cfg.LoadConcurrency)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("FARS_LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("FARS_LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if cfg.PlotWidthCm <= 0 || cfg.PlotHeightCm <= 0 {
		return nil, fmt.Errorf("plot dimensions must be positive, got %gx%g cm", cfg.PlotWidthCm, cfg.PlotHeightCm)
	}
	if cfg.PlotDPI <= 0 {
		return nil, fmt.Errorf("FARS_PLOT_DPI must be positive, got %d", cfg.PlotDPI)
	}

	return &cfg, nil
}
