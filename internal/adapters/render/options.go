package render

// Format is an output image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

const (
	defaultWidth  = 960
	defaultHeight = 540
	defaultTitle  = "Technology rankings"
)

// Option applies a configuration option to a chart.
type Option func(*options)

type options struct {
	width  int
	height int
	format Format
	title  string
}

// WithSize sets the canvas size in pixels. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// WithFormat selects SVG or PNG output.
func WithFormat(f Format) Option {
	return func(o *options) {
		if f == FormatPNG || f == FormatSVG {
			o.format = f
		}
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}
