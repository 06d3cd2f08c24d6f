package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/techrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
				convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 40)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TECHRANK_ADDR", ":8080")
			_ = os.Setenv("TECHRANK_DATA_FILE", "/srv/tech.xlsx")
			_ = os.Setenv("TECHRANK_MIN_RANK_CHANGE", "5")
			_ = os.Setenv("TECHRANK_RATE_LIMIT_RPS", "2.5")
			_ = os.Setenv("TECHRANK_XLSX_SHEET", "Ranks")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataFile, convey.ShouldEqual, "/srv/tech.xlsx")
				convey.So(cfg.MinRankChange, convey.ShouldEqual, 5)
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
				convey.So(cfg.XLSXSheet, convey.ShouldEqual, "Ranks")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := createTempConfigFile(t, `
addr: ":9090"
data_file: "data/trends.csv"
csv_delimiter: ";"
log_format: json
chart_width: 1200
`)
			_ = os.Setenv("TECHRANK_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataFile, convey.ShouldEqual, "data/trends.csv")
				convey.So(cfg.Delimiter(), convey.ShouldEqual, ';')
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.ChartWidth, convey.ShouldEqual, 1200)
				convey.So(cfg.ChartHeight, convey.ShouldEqual, 540)
			})

			convey.Convey("And env vars should win over the file", func() {
				_ = os.Setenv("TECHRANK_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DataFile, convey.ShouldEqual, "data/trends.csv")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("TECHRANK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is out of range", func() {
			_ = os.Setenv("TECHRANK_MIN_RANK_CHANGE", "-1")
			_ = os.Setenv("TECHRANK_DATA_FORMAT", "json")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail validation naming every key", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "min_rank_change")
				convey.So(err.Error(), convey.ShouldContainSubstring, "data_format")
			})
		})

		convey.Convey("When the address is empty", func() {
			_ = os.Setenv("TECHRANK_ADDR", "")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr")
			})
		})

		convey.Convey("When a number cannot be parsed", func() {
			_ = os.Setenv("TECHRANK_CHART_WIDTH", "wide")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"TECHRANK_CONFIG", "TECHRANK_ADDR", "TECHRANK_DATA_FILE", "TECHRANK_DATA_FORMAT",
		"TECHRANK_MIN_RANK_CHANGE", "TECHRANK_RATE_LIMIT_RPS", "TECHRANK_XLSX_SHEET",
		"TECHRANK_CHART_WIDTH", "TECHRANK_LOG_LEVEL", "TECHRANK_LOG_FORMAT",
	} {
		_ = os.Unsetenv(name)
	}
}
