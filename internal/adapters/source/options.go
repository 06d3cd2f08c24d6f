package source

// Option applies a configuration option to a loader.
type Option func(*options)

type options struct {
	delimiter rune
	sheet     string
	format    Format
}

func defaultOptions() options {
	return options{delimiter: ',', format: FormatAuto}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDelimiter sets the CSV field separator. Zero keeps the comma.
func WithDelimiter(d rune) Option {
	return func(o *options) {
		if d != 0 {
			o.delimiter = d
		}
	}
}

// WithSheet selects a workbook sheet by name. Empty means the first sheet.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// WithFormat forces the format used by Open instead of the file extension.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}
