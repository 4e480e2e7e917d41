package adapter

import markov "github.com/iburbey/predict-markov"

// NeighborTable reports whether two location symbols are adjacent, for
// grading a wrong WHERE prediction as "close" rather than simply wrong.
// predict.c's neighboring_ap hardcodes this against mapping.h's
// ap_map/ap_neighbors tables; those tables were not retrieved alongside
// predict.c (see original_source/_INDEX.md), so this is a caller-supplied
// adjacency table rather than fabricated geographic data.
type NeighborTable map[markov.Symbol][]markov.Symbol

// IsNeighbor reports whether candidate is listed as a neighbor of
// actual. A nil or missing-key table reports false, matching
// neighboring_ap's fall-through when the location isn't found.
func (t NeighborTable) IsNeighbor(candidate, actual markov.Symbol) bool {
	for _, n := range t[actual] {
		if n == candidate {
			return true
		}
	}
	return false
}

// TimeIndex maps a time-of-day symbol to its minute-of-week (or
// minute-of-day) index, the inverse of predict.c's timeslot_map lookup
// in within_time_window/get_hhmm_from_code. Like NeighborTable, the
// original's concrete timeslot_map data was not retrieved, so callers
// supply their own symbol-to-minute mapping.
type TimeIndex map[markov.Symbol]int

// WithinWindow reports whether time1 and time2 fall within rangeMinutes
// of each other under idx, FALSE if either symbol is unmapped.
// Grounded on predict.c's within_time_window.
func WithinWindow(idx TimeIndex, time1, time2 markov.Symbol, rangeMinutes int) bool {
	t1, ok1 := idx[time1]
	t2, ok2 := idx[time2]
	if !ok1 || !ok2 {
		return false
	}
	delta := t2 - t1
	if delta < 0 {
		delta = -delta
	}
	return delta <= rangeMinutes
}
