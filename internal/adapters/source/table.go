package source

import (
	"fmt"
	"strings"

	"github.com/okian/techrank/internal/domain/model"
)

const bom = "\uFEFF"

// buildTable turns records into a RawTable. The header defines the shape:
// cells beyond it are ignored. With pad set, short rows are filled with
// missing values instead of being rejected, which matches how workbooks
// drop trailing empty cells.
func buildTable(name string, records [][]string, pad bool) (model.RawTable, error) {
	records = dropBlank(records)
	if len(records) == 0 {
		return model.RawTable{}, fmt.Errorf("%w: %s: no header row", ErrMalformedSource, name)
	}

	header := trimAll(records[0])
	if len(header) > 0 {
		header[0] = strings.TrimSpace(strings.TrimPrefix(header[0], bom))
	}
	for len(header) > 1 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if len(header) < 2 {
		return model.RawTable{}, fmt.Errorf("%w: %s: header has no period columns", ErrMalformedSource, name)
	}

	table := model.RawTable{EntityLabel: header[0], Periods: header[1:]}
	seenPeriod := make(map[string]bool, len(table.Periods))
	for i, p := range table.Periods {
		if p == "" {
			return model.RawTable{}, fmt.Errorf("%w: %s: empty period label in column %d", ErrMalformedSource, name, i+2)
		}
		if seenPeriod[p] {
			return model.RawTable{}, fmt.Errorf("%w: %s: duplicate period %q", ErrMalformedSource, name, p)
		}
		seenPeriod[p] = true
	}

	if len(records) == 1 {
		return model.RawTable{}, fmt.Errorf("%w: %s: no data rows", ErrMalformedSource, name)
	}

	seenEntity := make(map[string]bool, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		if len(rec) < len(header) {
			if !pad {
				return model.RawTable{}, fmt.Errorf("%w: %s: row %d has %d cells, header has %d",
					ErrMalformedSource, name, line, len(rec), len(header))
			}
			rec = append(rec, make([]string, len(header)-len(rec))...)
		}
		entity := strings.TrimSpace(rec[0])
		if entity == "" {
			return model.RawTable{}, fmt.Errorf("%w: %s: row %d has no entity name", ErrMalformedSource, name, line)
		}
		if seenEntity[entity] {
			return model.RawTable{}, fmt.Errorf("%w: %s: duplicate entity %q on row %d", ErrMalformedSource, name, entity, line)
		}
		seenEntity[entity] = true

		r := model.Row{Name: entity, Values: make([]model.Value, len(table.Periods))}
		for i := range table.Periods {
			r.Values[i] = model.ParseValue(rec[i+1])
		}
		table.Rows = append(table.Rows, r)
	}
	return table, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// dropBlank removes rows whose cells are all empty.
func dropBlank(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		for _, c := range rec {
			if strings.TrimSpace(strings.TrimPrefix(c, bom)) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
