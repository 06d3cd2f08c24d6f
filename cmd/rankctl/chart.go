package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/techrank/internal/adapters/render"
	app "github.com/okian/techrank/internal/app"
	"github.com/okian/techrank/internal/domain/view"
)

const outputPermission = 0o644

type chartOptions struct {
	in        inputOptions
	output    string
	minChange int
	format    string
	width     int
	height    int
	title     string
}

func newChartCmd() *cobra.Command {
	var opts chartOptions

	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Render the rankings of FILE to an SVG or PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, args[0], opts)
		},
	}

	opts.in.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output image path (required)")
	cmd.Flags().IntVar(&opts.minChange, "min-change", 3, "Minimum rank change for an entity to be drawn")
	cmd.Flags().StringVar(&opts.format, "format", "svg", "Image format: svg or png")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Image width in pixels (default 960)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Image height in pixels (default 540)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Chart title")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runChart(cmd *cobra.Command, path string, opts chartOptions) (err error) {
	format := render.Format(opts.format)
	if format != render.FormatSVG && format != render.FormatPNG {
		return fmt.Errorf("%w: --format must be svg or png, got %q", errUsage, opts.format)
	}
	if opts.minChange < 0 {
		return fmt.Errorf("%w: --min-change must not be negative", errUsage)
	}

	svc, err := opts.in.service(path, opts.minChange)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ds, err := svc.Dataset(ctx)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(opts.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPermission)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(opts.output)
		}
	}()

	st := view.NewState(svc.DefaultMinRankChange())
	o := app.ChartOptions{Format: format, Width: opts.width, Height: opts.height, Title: opts.title}
	if err := svc.Chart(ctx, f, ds, st, o); err != nil {
		return err
	}

	visible := 0
	for _, item := range svc.View(ctx, ds, st) {
		if item.Visible {
			visible++
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d of %d technologies\n", opts.output, visible, len(ds.Entities))
	return err
}
