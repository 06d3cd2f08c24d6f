package view

import (
	"sort"

	"github.com/okian/techrank/internal/domain/model"
)

// Palette is the categorical color cycle used for lines, indexed by the
// entity's first-seen position.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Item is one row of the filter list.
type Item struct {
	Entity     string `json:"entity"`
	RankSpread int    `json:"rankSpread"`
	Visible    bool   `json:"visible"`
	Color      string `json:"color"`
}

// ColorOf returns the palette color for the entity at index i.
func ColorOf(i int) string {
	return Palette[i%len(Palette)]
}

// Items returns the filter list for ds under s: visible entities first, then
// hidden ones, each group ordered by name.
func Items(ds model.Dataset, s State) []Item {
	spreads := spreadsOf(ds)
	items := make([]Item, len(ds.Entities))
	for i, e := range ds.Entities {
		spread := spreads[e]
		items[i] = Item{
			Entity:     e,
			RankSpread: spread,
			Visible:    s.Visible(e, spread),
			Color:      ColorOf(i),
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Visible != items[j].Visible {
			return items[i].Visible
		}
		return items[i].Entity < items[j].Entity
	})
	return items
}

// Apply returns ds restricted to the entities visible under s. Points are
// copied unchanged; ranks and spreads keep their values from the full
// dataset.
func Apply(ds model.Dataset, s State) model.Dataset {
	spreads := spreadsOf(ds)
	keep := make(map[string]bool, len(ds.Entities))
	out := model.Dataset{ID: ds.ID, Periods: ds.Periods}
	for _, e := range ds.Entities {
		if s.Visible(e, spreads[e]) {
			keep[e] = true
			out.Entities = append(out.Entities, e)
		}
	}
	out.Points = make([]model.RankedPoint, 0, len(out.Entities)*len(ds.Periods))
	for _, p := range ds.Points {
		if keep[p.Entity] {
			out.Points = append(out.Points, p)
		}
	}
	if out.Entities == nil {
		out.Entities = []string{}
	}
	return out
}

// spreadsOf reads the rank spread the normalizer attached to each entity.
func spreadsOf(ds model.Dataset) map[string]int {
	out := make(map[string]int, len(ds.Entities))
	for _, p := range ds.Points {
		if _, ok := out[p.Entity]; !ok {
			out[p.Entity] = p.RankSpread
		}
	}
	return out
}

// SpreadOf returns the rank spread of entity in ds and whether it exists.
func SpreadOf(ds model.Dataset, entity string) (int, bool) {
	for _, p := range ds.Points {
		if p.Entity == entity {
			return p.RankSpread, true
		}
	}
	return 0, false
}
