package ranking

import (
	"fmt"
	"sort"

	"github.com/okian/techrank/internal/domain/model"
)

// Verify checks that ds satisfies the ranking invariants: one point per
// (entity, period), dense ranks 1..len(entities) in every period, present
// values ranked first in non-decreasing raw order, and a per-entity spread
// equal to max(rank)-min(rank). The first violation is returned wrapped in
// ErrInvariant.
func Verify(ds model.Dataset) error {
	want := len(ds.Entities) * len(ds.Periods)
	if len(ds.Points) != want {
		return fmt.Errorf("%w: %d points, want %d entities x %d periods", ErrInvariant, len(ds.Points), len(ds.Entities), len(ds.Periods))
	}

	periodIdx := make(map[string]int, len(ds.Periods))
	for i, p := range ds.Periods {
		if _, dup := periodIdx[p]; dup {
			return fmt.Errorf("%w: duplicate period %q", ErrInvariant, p)
		}
		periodIdx[p] = i
	}
	knownEntity := make(map[string]bool, len(ds.Entities))
	for _, e := range ds.Entities {
		knownEntity[e] = true
	}

	byPeriod := make([][]model.RankedPoint, len(ds.Periods))
	seen := make(map[[2]string]bool, len(ds.Points))
	for _, p := range ds.Points {
		idx, ok := periodIdx[p.Period]
		if !ok {
			return fmt.Errorf("%w: point of %q has unknown period %q", ErrInvariant, p.Entity, p.Period)
		}
		if !knownEntity[p.Entity] {
			return fmt.Errorf("%w: point has unknown entity %q", ErrInvariant, p.Entity)
		}
		key := [2]string{p.Entity, p.Period}
		if seen[key] {
			return fmt.Errorf("%w: %q has more than one point in %q", ErrInvariant, p.Entity, p.Period)
		}
		seen[key] = true
		byPeriod[idx] = append(byPeriod[idx], p)
	}

	for i, pts := range byPeriod {
		if err := verifyPeriod(ds.Periods[i], pts); err != nil {
			return err
		}
	}
	return verifySpreads(ds.Points)
}

func verifyPeriod(period string, pts []model.RankedPoint) error {
	sorted := make([]model.RankedPoint, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	inMissing := false
	for i, p := range sorted {
		if p.Rank != i+1 {
			return fmt.Errorf("%w: period %q ranks are not 1..%d", ErrInvariant, period, len(sorted))
		}
		if p.RawValue == nil {
			inMissing = true
			continue
		}
		if inMissing {
			return fmt.Errorf("%w: period %q ranks present %q below a missing value", ErrInvariant, period, p.Entity)
		}
		if i > 0 && sorted[i-1].RawValue != nil && *sorted[i-1].RawValue > *p.RawValue {
			return fmt.Errorf("%w: period %q ranks %q above a lower raw value", ErrInvariant, period, p.Entity)
		}
	}
	return nil
}

func verifySpreads(points []model.RankedPoint) error {
	spreads := Spreads(points)
	for _, p := range points {
		if p.RankSpread != spreads[p.Entity] {
			return fmt.Errorf("%w: %q has spread %d in %q, want %d", ErrInvariant, p.Entity, p.RankSpread, p.Period, spreads[p.Entity])
		}
	}
	return nil
}
