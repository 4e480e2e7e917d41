package markov

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildBuffer(symbols []Symbol) *SymbolBuffer {
	b := NewSymbolBuffer(len(symbols))
	for i, s := range symbols {
		b.Put(i, s)
	}
	return b
}

func TestProbabilityFallsBackToNullTableForUnseenContext(t *testing.T) {
	m, err := NewModel(2, 1, 3)
	require.NoError(t, err)
	train(t, m, []Symbol{1, 2, 1, 2})

	ctx := buildBuffer([]Symbol{99}) // never trained as a context
	p := m.Probability(3, ctx)
	require.Greater(t, p, 0.0) // 3 is in the null table, seeded at init
}

func TestProbabilityIsHigherForDeeplyTrainedContinuation(t *testing.T) {
	m, err := NewModel(2, 1, 2)
	require.NoError(t, err)
	train(t, m, []Symbol{1, 2, 1, 2, 1, 2, 1, 2, 1, 2})

	ctx := buildBuffer([]Symbol{1, 2})
	pOne := m.Probability(1, ctx)
	pTwo := m.Probability(2, ctx)
	require.Greater(t, pOne, pTwo)
}

// A symbol outside the configured alphabet range was never seeded into
// the null table, so even the order -1 fallback comes up empty.
func TestProbabilityReturnsZeroForSymbolOutsideAlphabet(t *testing.T) {
	m, err := NewModel(1, 1, 5)
	require.NoError(t, err)
	train(t, m, []Symbol{1, 2, 1, 2})

	ctx := buildBuffer([]Symbol{1})
	require.Equal(t, 0.0, m.Probability(99, ctx))
}

// A symbol within the alphabet but never trained in this context still
// carries nonzero probability, since the null table is seeded with a
// uniform count-1 entry for every alphabet symbol at construction time.
func TestProbabilityFallsBackToUniformNullEntry(t *testing.T) {
	m, err := NewModel(1, 1, 5)
	require.NoError(t, err)
	train(t, m, []Symbol{1, 2, 1, 2})

	ctx := buildBuffer([]Symbol{1})
	require.InDelta(t, 0.2, m.Probability(5, ctx), 1e-9)
}

// A model scoring the same alternating sequence it was trained on
// should settle into a low, finite average log-loss once the pattern
// repeats enough to dominate the escape cost of the first few symbols.
func TestComputeLogLossOnSelfConsistentStream(t *testing.T) {
	m, err := NewModel(2, 1, 2)
	require.NoError(t, err)

	seq := []Symbol{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2}
	train(t, m, seq)

	test := buildBuffer(seq)
	loss, err := m.ComputeLogLoss(test)
	require.NoError(t, err)
	require.GreaterOrEqual(t, loss, 0.0)
	require.Less(t, loss, 1.0)
}

func TestComputeLogLossOnEmptyStreamIsZero(t *testing.T) {
	m, err := NewModel(1, 1, 2)
	require.NoError(t, err)

	loss, err := m.ComputeLogLoss(NewSymbolBuffer(0))
	require.NoError(t, err)
	require.Equal(t, 0.0, loss)
}

func TestPredictNextCapsAtMaxPredictions(t *testing.T) {
	m, err := NewModel(0, 1, 2000)
	require.NoError(t, err)

	for c := Symbol(1); c <= 2000; c++ {
		m.ClearCurrentOrder()
		require.NoError(t, m.UpdateModel(c))
		require.NoError(t, m.AddCharacter(c))
	}

	empty := NewSymbolBuffer(0)
	pred, err := m.PredictNext(empty)
	require.NoError(t, err)
	require.Equal(t, MaxPredictions, len(pred.Predictions))
	require.Greater(t, pred.Denominator, int64(MaxPredictions))
}
