package model

import "sort"

// RankedPoint is one (entity, period) observation after normalization.
type RankedPoint struct {
	Entity string `json:"entity"`
	Period string `json:"period"`
	// Rank is the 1-based dense position within the period.
	Rank int `json:"rank"`
	// RawValue is nil when the input cell was missing or non-numeric.
	RawValue *float64 `json:"rawValue"`
	// RankSpread is max(rank) - min(rank) over all periods of Entity.
	RankSpread int `json:"rankSpread"`
}

// Dataset is the full presentation-facing result of one load.
type Dataset struct {
	// ID identifies a load; a new load always gets a new ID.
	ID       string        `json:"id"`
	Periods  []string      `json:"periods"`
	Entities []string      `json:"entities"`
	Points   []RankedPoint `json:"points"`
}

// PointsOf returns the points of entity in period order.
func (d Dataset) PointsOf(entity string) []RankedPoint {
	out := make([]RankedPoint, 0, len(d.Periods))
	for _, p := range d.Points {
		if p.Entity == entity {
			out = append(out, p)
		}
	}
	order := make(map[string]int, len(d.Periods))
	for i, period := range d.Periods {
		order[period] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		return order[out[i].Period] < order[out[j].Period]
	})
	return out
}

// MaxRank returns the largest rank in the dataset, or 0 when empty.
func (d Dataset) MaxRank() int {
	maxRank := 0
	for _, p := range d.Points {
		if p.Rank > maxRank {
			maxRank = p.Rank
		}
	}
	return maxRank
}
