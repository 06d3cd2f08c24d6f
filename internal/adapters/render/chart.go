// Package render draws ranked datasets as line charts.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/view"
)

// ErrRender wraps failures from the chart library.
var ErrRender = errors.New("chart render failed")

// maxRankTicks caps labelled ranks on the y axis.
const maxRankTicks = 20

// Chart writes one line per visible item to w. Ranks grow downward so rank 1
// sits on top. An empty visible set yields an empty-state chart.
func Chart(w io.Writer, ds model.Dataset, items []view.Item, opts ...Option) error {
	o := options{width: defaultWidth, height: defaultHeight, format: FormatSVG, title: defaultTitle}
	for _, opt := range opts {
		opt(&o)
	}

	index := make(map[string]int, len(ds.Periods))
	for i, p := range ds.Periods {
		index[p] = i
	}

	var series []chart.Series
	for _, it := range items {
		if !it.Visible {
			continue
		}
		pts := ds.PointsOf(it.Entity)
		if len(pts) == 0 {
			continue
		}
		s := chart.ContinuousSeries{
			Name:    it.Entity,
			XValues: make([]float64, 0, len(pts)),
			YValues: make([]float64, 0, len(pts)),
			Style:   lineStyle(it.Color),
		}
		for _, p := range pts {
			s.XValues = append(s.XValues, float64(index[p.Period]))
			s.YValues = append(s.YValues, float64(p.Rank))
		}
		series = append(series, s)
	}

	maxRank := ds.MaxRank()
	if maxRank < 1 {
		maxRank = 1
	}
	periods := len(ds.Periods)
	if periods < 1 {
		periods = 1
	}
	xMin, xMax := -0.5, float64(periods)-0.5
	yMin, yMax := 0.5, float64(maxRank)+0.5

	ch := chart.Chart{
		Title:      o.title,
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Period",
			Ticks: bounded(periodTicks(ds.Periods), xMin, xMax),
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  "Rank",
			Ticks: bounded(rankTicks(maxRank), yMin, yMax),
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax, Descending: true},
		},
		// The anchor spans the padded domain so neither axis collapses with
		// one period, one rank or no visible line at all.
		Series: append([]chart.Series{anchor(xMin, xMax, yMin, yMax)}, series...),
	}

	if len(series) == 0 {
		ch.Title = emptyTitle(o.title)
	} else {
		legend := ch
		legend.Series = series
		ch.Elements = []chart.Renderable{chart.Legend(&legend)}
	}

	provider := chart.SVG
	if o.format == FormatPNG {
		provider = chart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func lineStyle(hex string) chart.Style {
	col := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

// anchor is a visible series drawn fully transparent.
func anchor(xMin, xMax, yMin, yMax float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{xMin, xMax},
		YValues: []float64{yMin, yMax},
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			StrokeWidth: 1,
			DotColor:    drawing.ColorTransparent,
			DotWidth:    0,
		},
	}
}

// bounded adds unlabeled ticks at the axis ends.
func bounded(ticks []chart.Tick, lo, hi float64) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks)+2)
	out = append(out, chart.Tick{Value: lo})
	out = append(out, ticks...)
	return append(out, chart.Tick{Value: hi})
}

func periodTicks(periods []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(periods))
	for i, p := range periods {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p})
	}
	return ticks
}

// rankTicks labels every rank for short lists and an even step otherwise.
func rankTicks(maxRank int) []chart.Tick {
	step := 1
	if maxRank > maxRankTicks {
		step = (maxRank + maxRankTicks - 1) / maxRankTicks
	}
	ticks := []chart.Tick{{Value: 1, Label: "1"}}
	for r := step; r <= maxRank; r += step {
		if r == 1 {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: float64(r), Label: strconv.Itoa(r)})
	}
	return ticks
}

func emptyTitle(title string) string {
	if title == "" {
		return "No technologies selected"
	}
	return title + " (no technologies selected)"
}
