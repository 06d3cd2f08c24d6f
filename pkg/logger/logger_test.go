package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	// Test development mode
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize development logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Test production mode
	err = Init()
	if err != nil {
		t.Fatalf("failed to initialize production logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger = Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

// Basic logging test (slog-backed; no Sugar)
func TestLoggerBasic(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil")
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", String("k", "v"))
}

func TestLoggerNamed(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestLoggerFormats(t *testing.T) {
	Convey("Given a buffer as output", t, func() {
		var buf bytes.Buffer

		Convey("When initializing with the JSON format", func() {
			So(Init(WithFormat("JSON"), WithOutput(&buf)), ShouldBeNil)
			Get().Named("source").Info(context.Background(), "dataset loaded", Int("entities", 3), Float64("ms", 1.5))

			Convey("Then entries should be JSON objects", func() {
				line := strings.TrimSpace(buf.String())
				So(line, ShouldStartWith, "{")
				So(line, ShouldContainSubstring, `"msg":"dataset loaded"`)
				So(line, ShouldContainSubstring, `"entities":3`)
			})
		})

		Convey("When initializing with the text format", func() {
			So(Init(WithOutput(&buf)), ShouldBeNil)
			Get().Warn(context.Background(), "slow load", String("file", "tech.csv"))

			Convey("Then entries should be key=value pairs", func() {
				So(buf.String(), ShouldContainSubstring, "level=WARN")
				So(buf.String(), ShouldContainSubstring, "file=tech.csv")
			})
		})

		Convey("When the level is raised", func() {
			So(Init(WithOutput(&buf)), ShouldBeNil)
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(context.Background(), "hidden")
			Get().Error(context.Background(), "shown", Error(errors.New("boom")))

			Convey("Then lower levels should be dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When the format is unknown", func() {
			Convey("Then Init should fail", func() {
				So(Init(WithFormat("xml")), ShouldNotBeNil)
			})
		})

		Convey("When the level is unknown", func() {
			Convey("Then SetLevelString should fail", func() {
				So(SetLevelString("loud"), ShouldNotBeNil)
			})
		})

		Reset(func() {
			_ = Init()
		})
	})
}
