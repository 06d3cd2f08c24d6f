// Package ranking converts raw per-period positions into dense ranks.
//
// Ordering within a period: present values by ascending raw value, ties in
// input order; then missing values in input order. Ranks are 1..len(rows)
// with no gaps. The rank spread of an entity is max(rank)-min(rank) across
// all periods and is the same on every point of that entity.
package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/techrank/internal/domain/model"
)

// cell is a (row index, value) pair for one period.
type cell struct {
	row   int
	value model.Value
}

// Normalize ranks every row in every period. The result has exactly
// len(rows)*len(periods) points, period-major and in rank order within a
// period. A row whose value count differs from len(periods) yields ErrShape;
// two rows with the same name yield ErrDuplicateEntity.
func Normalize(periods []string, rows []model.Row) ([]model.RankedPoint, error) {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	if len(periods) == 0 || len(rows) == 0 {
		return []model.RankedPoint{}, nil
	}
	for _, r := range rows {
		if len(r.Values) != len(periods) {
			return nil, fmt.Errorf("%w: %q has %d values, want %d", ErrShape, r.Name, len(r.Values), len(periods))
		}
	}

	points := make([]model.RankedPoint, 0, len(rows)*len(periods))
	present := make([]cell, 0, len(rows))
	missing := make([]cell, 0, len(rows))

	for t, period := range periods {
		present, missing = present[:0], missing[:0]
		for i, r := range rows {
			c := cell{row: i, value: r.Values[t]}
			if c.value.Present {
				present = append(present, c)
			} else {
				missing = append(missing, c)
			}
		}

		sort.SliceStable(present, func(i, j int) bool {
			return present[i].value.Number < present[j].value.Number
		})

		rank := 1
		for _, c := range present {
			raw := c.value.Number
			points = append(points, model.RankedPoint{
				Entity:   rows[c.row].Name,
				Period:   period,
				Rank:     rank,
				RawValue: &raw,
			})
			rank++
		}
		for _, c := range missing {
			points = append(points, model.RankedPoint{
				Entity: rows[c.row].Name,
				Period: period,
				Rank:   rank,
			})
			rank++
		}
	}

	spreads := Spreads(points)
	for i := range points {
		points[i].RankSpread = spreads[points[i].Entity]
	}
	return points, nil
}

// Spreads returns entity -> max(rank)-min(rank) over points. An entity seen
// in a single period has spread 0.
func Spreads(points []model.RankedPoint) map[string]int {
	type bounds struct{ lo, hi int }
	acc := make(map[string]bounds)
	for _, p := range points {
		b, ok := acc[p.Entity]
		if !ok {
			acc[p.Entity] = bounds{lo: p.Rank, hi: p.Rank}
			continue
		}
		if p.Rank < b.lo {
			b.lo = p.Rank
		}
		if p.Rank > b.hi {
			b.hi = p.Rank
		}
		acc[p.Entity] = b
	}
	out := make(map[string]int, len(acc))
	for entity, b := range acc {
		out[entity] = b.hi - b.lo
	}
	return out
}

// Entities returns the distinct row names in first-seen order.
func Entities(rows []model.Row) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r.Name)
	}
	return out
}

// NormalizeTable builds the full dataset for t. The dataset ID is left empty
// for the caller to assign.
func NormalizeTable(t model.RawTable) (model.Dataset, error) {
	points, err := Normalize(t.Periods, t.Rows)
	if err != nil {
		return model.Dataset{}, err
	}
	periods := make([]string, len(t.Periods))
	copy(periods, t.Periods)
	return model.Dataset{
		Periods:  periods,
		Entities: Entities(t.Rows),
		Points:   points,
	}, nil
}
