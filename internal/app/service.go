// Package service provides the dataset service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/techrank/internal/adapters/render"
	"github.com/okian/techrank/internal/adapters/source"
	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/ranking"
	"github.com/okian/techrank/internal/domain/view"
	"github.com/okian/techrank/pkg/logger"
	"github.com/okian/techrank/pkg/metrics"
)

const (
	labelFile   = "file"
	labelUpload = "upload"
)

// ChartOptions selects the output of Chart. Zero values take service defaults.
type ChartOptions struct {
	Format render.Format
	Width  int
	Height int
	Title  string
}

// Service loads, normalizes and presents ranking datasets. Every call builds
// its own table and dataset; nothing mutable is shared between requests.
type Service struct {
	mu sync.RWMutex

	loader        source.Loader
	uploadOpts    []source.Option
	minRankChange int
	chartWidth    int
	chartHeight   int
	newID         func() string

	started   bool
	startedAt time.Time

	loads        atomic.Int64
	loadFailures atomic.Int64
	uploads      atomic.Int64
	charts       atomic.Int64
	last         atomic.Pointer[shape]

	logger logger.Logger
}

type shape struct {
	entities int
	periods  int
	points   int
	at       time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the source behind Dataset.
func WithLoader(l source.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithUploadOptions sets parser options for NormalizeUpload payloads.
func WithUploadOptions(opts ...source.Option) Option {
	return func(s *Service) {
		s.uploadOpts = opts
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultMinRankChange sets the threshold offered to clients.
func WithDefaultMinRankChange(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minRankChange = n
		}
	}
}

// WithChartSize sets the default chart size in pixels.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.chartWidth = width
			s.chartHeight = height
		}
	}
}

// WithIDGenerator replaces the dataset id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		minRankChange: 3,
		chartWidth:    960,
		chartHeight:   540,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

// Start marks the service ready and probes the configured source once.
// A failing probe is logged, not returned: the file may appear later.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.log().Info(ctx, "starting dataset service...", logger.Int("minRankChange", s.minRankChange))
	if s.loader == nil {
		s.log().Warn(ctx, "no data source configured; GET /api/data will fail")
		return nil
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		s.log().Warn(ctx, "initial dataset probe failed", logger.Error(err))
		return nil
	}
	s.log().Info(ctx, "dataset service started",
		logger.Int("entities", len(ds.Entities)),
		logger.Int("periods", len(ds.Periods)),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.log().Info(context.Background(), "dataset service stopped")
}

// Dataset loads the configured source and normalizes it.
func (s *Service) Dataset(ctx context.Context) (model.Dataset, error) {
	if s.loader == nil {
		metrics.RecordDatasetLoad(labelFile, "error")
		metrics.RecordLoadError(CodeSourceUnavailable)
		return model.Dataset{}, ErrNoLoader
	}
	return s.run(ctx, labelFile, s.loader)
}

// NormalizeUpload normalizes a table read from r.
func (s *Service) NormalizeUpload(ctx context.Context, name string, r io.Reader, format source.Format) (model.Dataset, error) {
	s.uploads.Add(1)
	return s.run(ctx, labelUpload, source.NewReader(name, r, format, s.uploadOpts...))
}

func (s *Service) run(ctx context.Context, label string, l source.Loader) (model.Dataset, error) {
	s.loads.Add(1)

	start := time.Now()
	table, err := l.Load(ctx)
	metrics.RecordLoadDuration(msSince(start))
	if err != nil {
		return model.Dataset{}, s.fail(ctx, label, err)
	}

	start = time.Now()
	ds, err := ranking.NormalizeTable(table)
	if err == nil {
		err = ranking.Verify(ds)
	}
	metrics.RecordNormalizeDuration(msSince(start))
	if err != nil {
		return model.Dataset{}, s.fail(ctx, label, err)
	}
	ds.ID = s.newID()

	metrics.RecordDatasetLoad(label, "ok")
	metrics.UpdateDatasetShape(len(ds.Entities), len(ds.Periods), len(ds.Points))
	s.last.Store(&shape{entities: len(ds.Entities), periods: len(ds.Periods), points: len(ds.Points), at: time.Now()})

	s.log().Debug(ctx, "dataset normalized",
		logger.String("id", ds.ID),
		logger.String("source", label),
		logger.Int("entities", len(ds.Entities)),
		logger.Int("periods", len(ds.Periods)),
	)
	return ds, nil
}

func (s *Service) fail(ctx context.Context, label string, err error) error {
	code := ErrorCode(err)
	s.loadFailures.Add(1)
	metrics.RecordDatasetLoad(label, "error")
	metrics.RecordLoadError(code)
	s.log().Error(ctx, "dataset load failed",
		logger.String("source", label),
		logger.String("kind", code),
		logger.Error(err),
	)
	return err
}

// View returns the filter list for a dataset the client already holds.
func (s *Service) View(_ context.Context, ds model.Dataset, st view.State) []view.Item {
	metrics.RecordViewRequest()
	return view.Items(ds, st)
}

// Chart renders the visible entities of ds to w.
func (s *Service) Chart(ctx context.Context, w io.Writer, ds model.Dataset, st view.State, o ChartOptions) error {
	format := o.Format
	if format == "" {
		format = render.FormatSVG
	}
	width, height := o.Width, o.Height
	if width <= 0 || height <= 0 {
		width, height = s.chartWidth, s.chartHeight
	}
	opts := []render.Option{render.WithFormat(format), render.WithSize(width, height)}
	if o.Title != "" {
		opts = append(opts, render.WithTitle(o.Title))
	}

	start := time.Now()
	if err := render.Chart(w, ds, view.Items(ds, st), opts...); err != nil {
		metrics.RecordChartFailure()
		s.log().Error(ctx, "chart render failed", logger.String("format", string(format)), logger.Error(err))
		return fmt.Errorf("chart %s: %w", ds.ID, err)
	}
	s.charts.Add(1)
	metrics.RecordChartRender(string(format), msSince(start))
	return nil
}

// DefaultMinRankChange returns the operator's default visibility threshold.
func (s *Service) DefaultMinRankChange() int {
	return s.minRankChange
}

// GetStats returns service statistics.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started, startedAt := s.started, s.startedAt
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         started,
		"loads":           s.loads.Load(),
		"load_failures":   s.loadFailures.Load(),
		"uploads":         s.uploads.Load(),
		"charts":          s.charts.Load(),
		"min_rank_change": s.minRankChange,
	}
	if started {
		stats["uptime_seconds"] = int64(time.Since(startedAt).Seconds())
	}
	if last := s.last.Load(); last != nil {
		stats["last_entities"] = last.entities
		stats["last_periods"] = last.periods
		stats["last_points"] = last.points
		stats["last_normalized_at"] = last.at.UTC().Format(time.RFC3339)
	}
	return stats
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
