// Package view holds presentation policy over a ranked dataset: which
// entities are drawn, how the filter list is ordered and what color each
// line gets. It never changes ranks or spreads.
package view

// State is the filter state of one view. It is a value: every operation
// returns a new State and leaves the receiver untouched.
type State struct {
	// MinRankChange is the threshold at or above which an entity is visible
	// by default.
	MinRankChange int `json:"minRankChange" validate:"gte=0"`
	// Forced entities are visible regardless of the threshold.
	Forced map[string]bool `json:"forced,omitempty"`
	// Blocked entities are hidden even when they meet the threshold.
	Blocked map[string]bool `json:"blocked,omitempty"`
}

// NewState returns the state produced by applying a new threshold: all
// manual overrides are cleared.
func NewState(minRankChange int) State {
	if minRankChange < 0 {
		minRankChange = 0
	}
	return State{
		MinRankChange: minRankChange,
		Forced:        map[string]bool{},
		Blocked:       map[string]bool{},
	}
}

// Visible reports whether entity with the given spread is drawn.
func (s State) Visible(entity string, spread int) bool {
	if s.Blocked[entity] {
		return false
	}
	return spread >= s.MinRankChange || s.Forced[entity]
}

// Toggle applies a checkbox change for entity. Checking forces the entity on
// and lifts any block. Unchecking drops the force and, when the entity would
// be visible by threshold alone, blocks it.
func (s State) Toggle(entity string, checked bool, spread int) State {
	next := s.clone()
	if checked {
		next.Forced[entity] = true
		delete(next.Blocked, entity)
		return next
	}
	delete(next.Forced, entity)
	if spread >= s.MinRankChange {
		next.Blocked[entity] = true
	}
	return next
}

func (s State) clone() State {
	out := State{
		MinRankChange: s.MinRankChange,
		Forced:        make(map[string]bool, len(s.Forced)),
		Blocked:       make(map[string]bool, len(s.Blocked)),
	}
	for k, v := range s.Forced {
		if v {
			out.Forced[k] = true
		}
	}
	for k, v := range s.Blocked {
		if v {
			out.Blocked[k] = true
		}
	}
	return out
}
