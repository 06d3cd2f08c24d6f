// Package source loads raw technology tables from CSV files, workbooks and
// request payloads.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/techrank/internal/domain/model"
)

// Loader produces a raw table. Each call reads the source afresh.
type Loader interface {
	Load(ctx context.Context) (model.RawTable, error)
}

// Format names a tabular encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a config or query value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv", "text/csv":
		return FormatCSV, nil
	case "xlsx", contentTypeXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Open returns a loader for path, chosen by WithFormat or the file extension.
func Open(path string, opts ...Option) (Loader, error) {
	o := buildOptions(opts)
	format := o.format
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm":
			format = FormatXLSX
		case ".csv", ".txt", "":
			format = FormatCSV
		default:
			return nil, fmt.Errorf("%w: extension of %s", ErrUnknownFormat, path)
		}
	}
	switch format {
	case FormatCSV:
		return NewCSVFile(path, opts...), nil
	case FormatXLSX:
		return NewXLSXFile(path, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
