package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/okian/techrank/internal/domain/model"
)

// CSVFile loads a delimited text file from disk.
type CSVFile struct {
	path string
	opts options
}

// NewCSVFile returns a loader for the CSV file at path.
func NewCSVFile(path string, opts ...Option) *CSVFile {
	return &CSVFile{path: path, opts: buildOptions(opts)}
}

// Load reads and parses the file.
func (c *CSVFile) Load(ctx context.Context) (model.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	f, err := os.Open(c.path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return readCSV(c.path, f, c.opts.delimiter)
}

func readCSV(name string, r io.Reader, delimiter rune) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("%w: %s: %w", ErrMalformedSource, name, err)
	}
	return buildTable(name, records, false)
}
