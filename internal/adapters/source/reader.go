package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/okian/techrank/internal/domain/model"
)

// zipMagic starts every XLSX payload.
var zipMagic = []byte("PK\x03\x04")

// Reader parses a table from an in-memory payload such as an upload.
type Reader struct {
	name   string
	r      io.Reader
	format Format
	opts   options
}

// NewReader returns a loader over r. FormatAuto sniffs the payload.
// The payload is consumed by the first Load.
func NewReader(name string, r io.Reader, format Format, opts ...Option) *Reader {
	return &Reader{name: name, r: r, format: format, opts: buildOptions(opts)}
}

// Load reads the payload and parses it.
func (p *Reader) Load(ctx context.Context) (model.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	data, err := io.ReadAll(p.r)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, p.name, err)
	}

	format := p.format
	if format == FormatAuto || format == "" {
		format = FormatCSV
		if bytes.HasPrefix(data, zipMagic) {
			format = FormatXLSX
		}
	}

	switch format {
	case FormatCSV:
		return readCSV(p.name, bytes.NewReader(data), p.opts.delimiter)
	case FormatXLSX:
		return openWorkbook(p.name, bytes.NewReader(data), p.opts.sheet)
	default:
		return model.RawTable{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
