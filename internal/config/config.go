// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr" validate:"required"`

	// DataFile is the table served by GET /api/data.
	DataFile string `koanf:"data_file" validate:"required"`

	// DataFormat forces csv or xlsx; auto picks by extension.
	DataFormat string `koanf:"data_format" validate:"oneof=auto csv xlsx"`

	// CSVDelimiter is the single-character field separator.
	CSVDelimiter string `koanf:"csv_delimiter" validate:"len=1"`

	// XLSXSheet names the workbook sheet to read. Empty means the first.
	XLSXSheet string `koanf:"xlsx_sheet"`

	// MinRankChange is the default visibility threshold offered to the page.
	MinRankChange int `koanf:"min_rank_change" validate:"gte=0"`

	// MaxUploadBytes caps POST /api/normalize bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// RateLimitRPS and RateLimitBurst bound /api/ traffic. Zero RPS disables.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=1"`

	// ChartWidth and ChartHeight are the default image size in pixels.
	ChartWidth  int `koanf:"chart_width" validate:"gte=100,lte=4096"`
	ChartHeight int `koanf:"chart_height" validate:"gte=100,lte=4096"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":3000",
		DataFile:       "trends.csv",
		DataFormat:     "auto",
		CSVDelimiter:   ",",
		MinRankChange:  3,
		MaxUploadBytes: 10 << 20,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		ChartWidth:     960,
		ChartHeight:    540,
	}
}

// Delimiter returns the CSV separator as a rune.
func (c *Config) Delimiter() rune {
	for _, r := range c.CSVDelimiter {
		return r
	}
	return ','
}
