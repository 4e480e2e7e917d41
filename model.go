package markov

import "github.com/iburbey/predict-markov/markoverr"

// nullIdx and controlIdx are the fixed arena slots for the order -1
// (null) and order -2 (control) tables, spec.md §3's "Null table" and
// "Control table". The order-0 root's slot is kept in Model.rootIdx.
const (
	nullIdx    int32 = 0
	controlIdx int32 = 1
)

// Option configures a Model at construction time.
type Option func(*Model)

// WithUpdateExclusion selects the update-exclusion variant of
// UpdateModel (walk orders current_order..k instead of 0..k), resolving
// spec.md §9's first Open Question. Default is false: every call walks
// 0..k, the "enabled override" spec.md §4.3 specifies as the default
// behavior.
func WithUpdateExclusion(enabled bool) Option {
	return func(m *Model) { m.excludeUpdate = enabled }
}

// Model is the owning aggregate for the context trie, current-context
// array, scoreboard, and totals scratch buffer (spec.md §9: "wrap in an
// owning 'model' aggregate threaded explicitly through API calls").
// It implements C3 (context trie), C4 (scoreboard & totals), and C5
// (model API).
type Model struct {
	order         int
	alphabetLow   Symbol
	alphabetHigh  Symbol
	excludeUpdate bool

	nodes   []contextNode
	rootIdx int32

	current      []int32 // length order+3, current[i+2] == order i, i in -2..order
	currentOrder int

	scoreboard []bool
}

// NewModel constructs and initializes a Model of the given order over
// the inclusive alphabet range [alphabetLow, alphabetHigh]. The null
// table is seeded with exactly alphabetHigh-alphabetLow+1 entries,
// resolving spec.md §9's second Open Question (alphabet size tied to
// adapter configuration rather than a hardcoded constant).
func NewModel(order int, alphabetLow, alphabetHigh Symbol, opts ...Option) (*Model, error) {
	if order < 0 {
		return nil, markoverr.NewInvariantError("model order must be >= 0, got %d", order)
	}
	if alphabetHigh < alphabetLow {
		return nil, markoverr.NewInvariantError("alphabet range invalid: low=%d high=%d", alphabetLow, alphabetHigh)
	}
	m := &Model{
		order:        order,
		alphabetLow:  alphabetLow,
		alphabetHigh: alphabetHigh,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m, nil
}

// Order returns the configured maximum context order k.
func (m *Model) Order() int { return m.order }

// CurrentOrder returns the current order of the model's emission state
// machine (spec.md §4.5).
func (m *Model) CurrentOrder() int { return m.currentOrder }

// initialize builds the order -2/-1/0 tables, the initial all-zero-context
// path from order 1 to k, and clears the scoreboard, per spec.md §4.3.
func (m *Model) initialize() {
	m.nodes = make([]contextNode, 0, 3+m.order)
	m.nodes = append(m.nodes, contextNode{lesserContext: noLink}) // nullIdx
	m.nodes = append(m.nodes, contextNode{lesserContext: noLink}) // controlIdx

	// Order-0 root: allocate_next_order_table(null, 0, null).
	m.rootIdx = m.allocateNextOrderTable(nullIdx, 0, nullIdx)

	// Chain order 1..k to build the path for the initial all-zero context.
	chain := make([]int32, m.order+1)
	chain[0] = m.rootIdx
	prev := m.rootIdx
	for i := 1; i <= m.order; i++ {
		next := m.allocateNextOrderTable(prev, 0, prev)
		chain[i] = next
		prev = next
	}

	// Seed the null table with one count-1 entry per alphabet symbol.
	n := int(m.alphabetHigh-m.alphabetLow) + 1
	nullStats := make([]statEntry, n)
	for i := 0; i < n; i++ {
		nullStats[i] = statEntry{symbol: m.alphabetLow + Symbol(i), count: 1}
	}
	m.nodes[nullIdx].stats = nullStats
	m.nodes[nullIdx].children = nil // decoupled: the only real child link is the order-0 root, handled as a base case in shiftToNextContext.

	// Control table: FLUSH/DONE, negated per the order -2 comparison
	// kludge (spec.md §4.5).
	m.nodes[controlIdx].stats = []statEntry{
		{symbol: -Flush, count: 1},
		{symbol: -Done, count: 1},
	}

	m.current = make([]int32, m.order+3)
	m.current[0] = controlIdx
	m.current[1] = nullIdx
	for i := 0; i <= m.order; i++ {
		m.current[i+2] = chain[i]
	}
	m.currentOrder = m.order

	m.scoreboard = make([]bool, n)
}

// Reset tears down and rebuilds the trie from scratch (spec.md §3
// Lifecycle: "the entire trie is reclaimed on teardown").
func (m *Model) Reset() {
	m.initialize()
}

// ClearCurrentOrder sets current_order to 0, used by training drivers so
// UpdateModel walks from order 0 (spec.md §4.5).
func (m *Model) ClearCurrentOrder() {
	m.currentOrder = 0
}

// AddCharacter advances the current-context array by symbol c, per
// spec.md §4.3's add_character. It is a no-op for c < 0 or order < 0.
func (m *Model) AddCharacter(c Symbol) error {
	if m.order < 0 || c < 0 {
		return nil
	}
	if c < m.alphabetLow || c > m.alphabetHigh {
		return markoverr.NewInvariantError("symbol %d outside configured alphabet [%d,%d]", c, m.alphabetLow, m.alphabetHigh)
	}
	top := m.shiftToNextContext(m.current[m.order+2], c, m.order)
	m.current[m.order+2] = top
	for i := m.order - 1; i >= 1; i-- {
		m.current[i+2] = m.nodes[m.current[i+3]].lesserContext
	}
	return nil
}

// UpdateModel increments c's count in every order the policy selects
// (0..k by default, or current_order..k under WithUpdateExclusion),
// restoring heap order by adjacent-swap promotion, then resets
// current_order to k and clears the scoreboard (spec.md §4.3).
func (m *Model) UpdateModel(c Symbol) error {
	if c >= 0 {
		if c < m.alphabetLow || c > m.alphabetHigh {
			return markoverr.NewInvariantError("symbol %d outside configured alphabet [%d,%d]", c, m.alphabetLow, m.alphabetHigh)
		}
		localOrder := 0
		if m.excludeUpdate && m.currentOrder > 0 {
			localOrder = m.currentOrder
		}
		for ; localOrder <= m.order; localOrder++ {
			m.updateTable(m.current[localOrder+2], c, localOrder < m.order)
		}
	}
	m.currentOrder = m.order
	m.clearScoreboard()
	return nil
}

// Flush recursively rescales every node reachable from the root,
// giving greater weight to upcoming statistics (spec.md §4.5).
func (m *Model) Flush() {
	visited := make(map[int32]bool, len(m.nodes))
	m.recursiveFlush(m.rootIdx, visited)
}

func (m *Model) recursiveFlush(nodeIdx int32, visited map[int32]bool) {
	if visited[nodeIdx] {
		return
	}
	visited[nodeIdx] = true
	for _, child := range m.nodes[nodeIdx].children {
		if child != noLink {
			m.recursiveFlush(child, visited)
		}
	}
	m.rescaleTable(nodeIdx)
}

// Interval is the (low, high, scale) triple handed to an arithmetic
// coder, or used directly as a relative-frequency probability (spec.md
// §3 "Scale").
type Interval struct {
	Low   int64
	High  int64
	Scale int64
}

// ConvertIntToSymbol locates c in the current order's context. On a
// match it returns the cumulative interval and escaped=false. On a
// miss it returns the escape interval and decrements current_order,
// escaped=true. current_order == -2 negates c for the comparison (the
// control-table kludge, spec.md §4.5).
func (m *Model) ConvertIntToSymbol(c Symbol) (Interval, bool, error) {
	if m.currentOrder < -2 {
		return Interval{}, false, markoverr.NewProtocolError("convert_int_to_symbol called below order -2 for symbol %d", c)
	}
	nodeIdx := m.current[m.currentOrder+2]
	totals := m.totalizeTable(nodeIdx, m.currentOrder)
	cmp := c
	if m.currentOrder == -2 {
		cmp = -c
	}
	node := &m.nodes[nodeIdx]
	for i, se := range node.stats {
		if se.symbol == cmp {
			if se.count == 0 {
				break
			}
			return Interval{Low: totals[i+2], High: totals[i+1], Scale: totals[0]}, false, nil
		}
	}
	if m.currentOrder == -2 {
		return Interval{}, false, markoverr.NewProtocolError("escape exhausted at control table for symbol %d", c)
	}
	interval := Interval{Low: totals[1], High: totals[0], Scale: totals[0]}
	m.currentOrder--
	return interval, true, nil
}

// GetSymbolScale populates interval.scale with the current order node's
// totalized scale (spec.md §4.5; used by a decoder, not by prediction).
func (m *Model) GetSymbolScale() Interval {
	nodeIdx := m.current[m.currentOrder+2]
	totals := m.totalizeTable(nodeIdx, m.currentOrder)
	return Interval{Scale: totals[0]}
}

// TraverseTree sets current_order to the deepest order whose context
// matches the trailing symbols of ctx, shortening ctx from the front on
// a miss and restarting at order 0, per spec.md §4.5/§4.6.
func (m *Model) TraverseTree(ctx *SymbolBuffer) {
	if ctx.Len() == 0 {
		m.currentOrder = 0
		m.current[2] = m.rootIdx
		return
	}
	work := NewSymbolBuffer(ctx.Len())
	_ = work.CopySlice(ctx, 0, ctx.Len())

	localOrder := 0
	idx := 0
	table := m.rootIdx
	m.current[2] = m.rootIdx

	for {
		testChar := work.Get(idx)
		node := &m.nodes[table]
		i, found := node.indexOf(testChar)
		var child int32 = noLink
		if found && !node.isLeaf() {
			child = node.children[i]
		}
		hasDeeperChild := child != noLink && len(m.nodes[child].stats) > 0
		if !found || !hasDeeperChild {
			if work.Len() == 1 {
				localOrder = -1
				break
			}
			work.ShiftLeft()
			idx = 0
			localOrder = 0
			table = m.rootIdx
			m.current[2] = m.rootIdx
			continue
		}
		idx++
		localOrder++
		table = child
		m.current[localOrder+2] = table
		if idx == work.Len() {
			break
		}
	}
	m.currentOrder = localOrder
}
