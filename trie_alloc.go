package markov

// allocateNextOrderTable ensures parent has a stat entry for symbol
// (appending one with a child slot if missing), allocates a fresh node
// with the given lesser-context link, wires it into parent's child
// slot, and returns its arena index. Grounded on
// original_source/model-2.c's allocate_next_order_table.
//
// Mutation order matters here: parent's stat/child slice is grown
// before the new node is appended to m.nodes, and the final wiring of
// parent's child slot happens only after that append — appending to
// m.nodes can reallocate its backing array, so no *contextNode taken
// before the append may be dereferenced afterward.
func (m *Model) allocateNextOrderTable(parent int32, symbol Symbol, lesser int32) int32 {
	if _, ok := m.nodes[parent].indexOf(symbol); !ok {
		m.nodes[parent].appendStat(symbol, true)
	}
	idx, _ := m.nodes[parent].indexOf(symbol)

	newIdx := int32(len(m.nodes))
	m.nodes = append(m.nodes, contextNode{lesserContext: lesser})

	m.nodes[parent].children[idx] = newIdx
	return newIdx
}

// shiftToNextContext finds (or builds) the node one symbol deeper than
// table's lesser context, following the suffix-link chain down to order
// 0 if necessary. Grounded on original_source/model-2.c's
// shift_to_next_context; the order-0 base case always returns the root,
// since the null table's sole structural child is the root by
// construction (spec.md §9).
func (m *Model) shiftToNextContext(table int32, symbol Symbol, order int) int32 {
	if order == 0 {
		return m.rootIdx
	}
	lesser := m.nodes[table].lesserContext
	if idx, ok := m.nodes[lesser].indexOf(symbol); ok {
		if child := m.nodes[lesser].children[idx]; child != noLink {
			return child
		}
	}
	newLesser := m.shiftToNextContext(lesser, symbol, order-1)
	return m.allocateNextOrderTable(lesser, symbol, newLesser)
}

// updateTable increments symbol's count in nodeIdx's stats (appending a
// fresh entry first if symbol is unseen there), then restores the
// count-descending sort by repeatedly swapping the entry one slot
// earlier while the preceding entry's count is no greater. hasChildren
// controls whether a new entry also grows a child slot (false only at
// the deepest configured order). Grounded on
// original_source/model-2.c's update_table.
func (m *Model) updateTable(nodeIdx int32, symbol Symbol, hasChildren bool) {
	node := &m.nodes[nodeIdx]
	idx, ok := node.indexOf(symbol)
	if !ok {
		idx = node.appendStat(symbol, hasChildren)
	}
	i := idx
	for i > 0 && node.stats[i].count == node.stats[i-1].count {
		node.promote(i)
		i--
	}
	node.stats[i].count++
}
