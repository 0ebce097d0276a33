package roundtypes

import (
	"sort"

	"github.com/google/uuid"
)

// MinTerminalOrder returns the smallest fixed order greater than the NEW
// anchor, i.e. the floor of the terminal band.
func MinTerminalOrder(rounds []JobRound) int {
	minOrder := 0
	for _, r := range rounds {
		if !r.IsFixed || r.Order <= OrderNew {
			continue
		}
		if minOrder == 0 || r.Order < minOrder {
			minOrder = r.Order
		}
	}
	if minOrder == 0 {
		return DefaultMinFixedOrder
	}
	return minOrder
}

// ClampOrder pins a requested order into the custom band [2, minFixed-1].
func ClampOrder(requested, minFixed int) int {
	if requested < FirstCustomOrder {
		return FirstCustomOrder
	}
	if requested > minFixed-1 {
		return minFixed - 1
	}
	return requested
}

// CustomCapacity is the number of custom rounds that fit between the anchors.
func CustomCapacity(rounds []JobRound) int {
	return MinTerminalOrder(rounds) - FirstCustomOrder
}

// sortedCustom returns the custom rounds except skip, ascending by current order.
func sortedCustom(rounds []JobRound, skip uuid.UUID) []JobRound {
	custom := make([]JobRound, 0, len(rounds))
	for _, r := range rounds {
		if r.IsFixed || r.ID == skip {
			continue
		}
		custom = append(custom, r)
	}
	sort.SliceStable(custom, func(i, j int) bool { return custom[i].Order < custom[j].Order })
	return custom
}

// PlaceRound splices moved into the custom run as close as possible to the
// requested order and renumbers the run densely from 2. moved may be a
// round that is not yet part of rounds (creation) or an existing one
// (reorder). Only rounds whose order actually changes are returned.
func PlaceRound(rounds []JobRound, moved JobRound, requested int) []OrderChange {
	minFixed := MinTerminalOrder(rounds)
	clamped := ClampOrder(requested, minFixed)

	custom := sortedCustom(rounds, moved.ID)

	index := clamped - FirstCustomOrder
	if index < 0 {
		index = 0
	}
	if index > len(custom) {
		index = len(custom)
	}

	run := make([]JobRound, 0, len(custom)+1)
	run = append(run, custom[:index]...)
	run = append(run, moved)
	run = append(run, custom[index:]...)

	return renumber(run)
}

// CompactOrders renumbers the remaining custom rounds densely from 2, as
// done after a deletion.
func CompactOrders(rounds []JobRound) []OrderChange {
	return renumber(sortedCustom(rounds, uuid.Nil))
}

// AppendOrder is the order a new custom round gets when no position is requested.
func AppendOrder(rounds []JobRound) int {
	return FirstCustomOrder + len(sortedCustom(rounds, uuid.Nil))
}

func renumber(run []JobRound) []OrderChange {
	var changes []OrderChange
	for i, r := range run {
		want := FirstCustomOrder + i
		if r.Order != want {
			changes = append(changes, OrderChange{RoundID: r.ID, Order: want})
		}
	}
	return changes
}

// ApplyOrderChanges returns a copy of rounds with changes applied.
func ApplyOrderChanges(rounds []JobRound, changes []OrderChange) []JobRound {
	byID := make(map[uuid.UUID]int, len(changes))
	for _, c := range changes {
		byID[c.RoundID] = c.Order
	}
	out := make([]JobRound, len(rounds))
	for i, r := range rounds {
		if o, ok := byID[r.ID]; ok {
			r.Order = o
		}
		out[i] = r
	}
	return out
}
