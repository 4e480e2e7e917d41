package markov

import "math"

// MaxPredictions bounds the number of ranked candidates PredictNext
// returns, mirroring model.h's MAX_NUM_PREDICTIONS.
const MaxPredictions = 1500

// PredictedSymbol is one ranked candidate: a symbol and its raw count
// ("numerator") in the context PredictNext settled on.
type PredictedSymbol struct {
	Symbol    Symbol
	Numerator int64
}

// Prediction is the ranked output of PredictNext: the order the
// predictor settled on, the denominator (sum of counts) to divide each
// candidate's numerator by, and up to MaxPredictions candidates in
// count-descending order.
type Prediction struct {
	Depth       int
	Denominator int64
	Predictions []PredictedSymbol
}

// PredictNext traverses ctx to the deepest matching context (promoting
// a miss on non-empty context from order -1 back up to order 0, since a
// prediction must never be served from the null table) and ranks that
// context's symbols by raw count, per spec.md §4.6.
func (m *Model) PredictNext(ctx *SymbolBuffer) (Prediction, error) {
	m.TraverseTree(ctx)
	if m.currentOrder == -1 && ctx.Len() > 0 {
		m.currentOrder = 0
	}

	nodeIdx := m.current[m.currentOrder+2]
	node := &m.nodes[nodeIdx]
	arity := len(node.stats)

	numPred := arity
	if numPred > MaxPredictions {
		numPred = MaxPredictions
	}
	preds := make([]PredictedSymbol, numPred)

	var denom int64
	for i := 0; i < arity; i++ {
		if i < numPred {
			preds[i] = PredictedSymbol{Symbol: node.stats[i].symbol, Numerator: int64(node.stats[i].count)}
		}
		denom += int64(node.stats[i].count)
	}

	return Prediction{Depth: m.currentOrder, Denominator: denom, Predictions: preds}, nil
}

// Probability returns the deepest-context relative frequency of symbol
// c following ctx, shortening ctx from the front on a miss and falling
// back to the null table (order -1) as the final resort, per spec.md
// §4.6. A symbol inside the configured alphabet that no context has seen
// gets its uniform null-table share; it returns 0 for a symbol outside
// the alphabet, which the null table does not hold.
func (m *Model) Probability(c Symbol, ctx *SymbolBuffer) float64 {
	work := NewSymbolBuffer(ctx.Len())
	_ = work.CopySlice(ctx, 0, ctx.Len())

	for {
		m.TraverseTree(work)
		nodeIdx := m.current[m.currentOrder+2]
		node := &m.nodes[nodeIdx]
		if i, found := node.indexOf(c); found {
			var denom int64
			for _, se := range node.stats {
				denom += int64(se.count)
			}
			if denom == 0 {
				return 0
			}
			return float64(node.stats[i].count) / float64(denom)
		}
		if m.currentOrder > 0 && work.Len() > 1 {
			work.ShiftLeft()
			continue
		}
		break
	}

	nullNode := &m.nodes[nullIdx]
	if i, found := nullNode.indexOf(c); found {
		var denom int64
		for _, se := range nullNode.stats {
			denom += int64(se.count)
		}
		return float64(nullNode.stats[i].count) / float64(denom)
	}
	return 0
}

// ComputeLogLoss scores test against the trained model, averaging the
// base-2 log-loss of each symbol given its preceding up-to-k symbols of
// context. Escapes shorten the context in place and retry, abandoning
// further shortening once only one context symbol remains. The mean is
// divided by the number of symbols actually scored, fixing the
// original's division by an unassigned counter (spec.md §4.6 point 3 /
// §9 Design Notes).
func (m *Model) ComputeLogLoss(test *SymbolBuffer) (float64, error) {
	var sum float64
	scored := 0

	for i := 0; i < test.Len(); i++ {
		start := i - m.order
		if start < 0 {
			start = 0
		}
		ctxLen := i - start
		ctx := NewSymbolBuffer(ctxLen)
		if ctxLen > 0 {
			if err := ctx.CopySlice(test, start, ctxLen); err != nil {
				return 0, err
			}
		}

		m.clearScoreboard()
		numerator := 1.0
		denominator := 1.0
		for {
			m.TraverseTree(ctx)
			interval, escaped, err := m.ConvertIntToSymbol(test.Get(i))
			if err != nil {
				return 0, err
			}
			if interval.Scale != 0 {
				numerator *= float64(interval.High - interval.Low)
				denominator *= float64(interval.Scale)
			}
			if !escaped || ctx.Len() <= 1 {
				break
			}
			ctx.ShiftLeft()
		}

		prob := numerator / denominator
		if prob > 0 {
			sum += math.Log10(prob) / math.Log10(2)
		}
		scored++
	}

	if scored == 0 {
		return 0, nil
	}
	return -(sum / float64(scored)), nil
}
