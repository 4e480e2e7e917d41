package markov

// scoreIndex maps a symbol into the scoreboard's dense index space. ok
// is false for symbols outside the configured alphabet (the control
// table's negated FLUSH/DONE markers, in particular), which never
// participate in update exclusion.
func (m *Model) scoreIndex(symbol Symbol) (int, bool) {
	if symbol < m.alphabetLow || symbol > m.alphabetHigh {
		return 0, false
	}
	return int(symbol - m.alphabetLow), true
}

// clearScoreboard resets every symbol's "already accounted for at a
// higher order" bit, done once per emitted symbol (spec.md §4.4).
func (m *Model) clearScoreboard() {
	for i := range m.scoreboard {
		m.scoreboard[i] = false
	}
}

// totalizeTable builds the cumulative-count totals buffer for nodeIdx,
// excluding symbols already marked on the scoreboard (update exclusion,
// skipped entirely for the control table), rescaling and retrying
// whenever the running total would reach MaximumScale. order is the
// node's order in the current traversal, needed only to pick the
// escape-count formula (order 0 excludes the "+1" the original reserves
// for re-escaping past order 0). Grounded on original_source/model-2.c's
// totalize_table and rescale_table.
func (m *Model) totalizeTable(nodeIdx int32, order int) []int64 {
	for {
		node := &m.nodes[nodeIdx]
		arity := len(node.stats)
		totals := make([]int64, arity+2)

		var maxCount uint32
		totals[arity+1] = 0
		for i := arity + 1; i > 1; i-- {
			totals[i-1] = totals[i]
			se := node.stats[i-2]
			if se.count > 0 {
				if nodeIdx == controlIdx {
					totals[i-1] += int64(se.count)
				} else if idx, ok := m.scoreIndex(se.symbol); !ok || !m.scoreboard[idx] {
					totals[i-1] += int64(se.count)
				}
			}
			if se.count > maxCount {
				maxCount = se.count
			}
		}

		switch {
		case maxCount == 0:
			totals[0] = 1
		case order == 0:
			totals[0] = totals[1] + int64(arity)
		default:
			totals[0] = totals[1] + int64(arity) + 1
		}

		if totals[0] < MaximumScale {
			for i := 0; i < arity; i++ {
				if node.stats[i].count == 0 {
					continue
				}
				if idx, ok := m.scoreIndex(node.stats[i].symbol); ok {
					m.scoreboard[idx] = true
				}
			}
			return totals
		}
		m.rescaleTable(nodeIdx)
	}
}

// rescaleTable halves every count in nodeIdx, then — for a leaf whose
// trailing entries have dropped to zero — trims them, shrinking the
// stat array. Halving preserves the non-increasing sort order invariant
// 3 maintains. Grounded on original_source/model-2.c's rescale_table.
func (m *Model) rescaleTable(nodeIdx int32) {
	node := &m.nodes[nodeIdx]
	if len(node.stats) == 0 {
		return
	}
	for i := range node.stats {
		node.stats[i].count /= 2
	}
	if node.isLeaf() {
		last := len(node.stats) - 1
		for last >= 0 && node.stats[last].count == 0 {
			last--
		}
		node.stats = node.stats[:last+1]
	}
}
