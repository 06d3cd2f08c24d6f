package source

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/techrank/internal/domain/model"
)

// XLSXFile loads one sheet of a workbook from disk.
type XLSXFile struct {
	path string
	opts options
}

// NewXLSXFile returns a loader for the workbook at path.
func NewXLSXFile(path string, opts ...Option) *XLSXFile {
	return &XLSXFile{path: path, opts: buildOptions(opts)}
}

// Load opens the workbook and parses the selected sheet.
func (x *XLSXFile) Load(ctx context.Context) (model.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return readWorkbook(x.path, f, x.opts.sheet)
}

func openWorkbook(name string, r io.Reader, sheet string) (model.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %s: %w", ErrMalformedSource, name, err)
	}
	defer f.Close()
	return readWorkbook(name, f, sheet)
}

func readWorkbook(name string, f *excelize.File, sheet string) (model.RawTable, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.RawTable{}, fmt.Errorf("%w: %s: workbook has no sheets", ErrMalformedSource, name)
		}
		sheet = sheets[0]
	}
	shown, err := f.GetRows(sheet)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %s: sheet %q: %w", ErrMalformedSource, name, sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %s: sheet %q: %w", ErrMalformedSource, name, sheet, err)
	}
	return buildTable(name+"#"+sheet, mergeRows(shown, raw), true)
}

// mergeRows keeps the displayed text for labels (header row, first column)
// and the stored value for data cells, so number formats such as "#,##0" or
// "0%" do not hide the number.
func mergeRows(shown, raw [][]string) [][]string {
	out := make([][]string, len(shown))
	for r, cells := range shown {
		row := append([]string(nil), cells...)
		if r > 0 && r < len(raw) {
			for c := 1; c < len(row) && c < len(raw[r]); c++ {
				row[c] = raw[r][c]
			}
		}
		out[r] = row
	}
	return out
}
