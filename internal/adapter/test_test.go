package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	markov "github.com/iburbey/predict-markov"
)

func trainAlternating(t *testing.T, order int, low, high markov.Symbol, seq []markov.Symbol) *markov.Model {
	t.Helper()
	m, err := markov.NewModel(order, low, high)
	require.NoError(t, err)
	for _, c := range seq {
		m.ClearCurrentOrder()
		require.NoError(t, m.UpdateModel(c))
		require.NoError(t, m.AddCharacter(c))
	}
	return m
}

func buildBuf(symbols []markov.Symbol) *markov.SymbolBuffer {
	b := markov.NewSymbolBuffer(len(symbols))
	for i, s := range symbols {
		b.Put(i, s)
	}
	return b
}

func TestBuildTestStringClonesForWhere(t *testing.T) {
	src := buildBuf([]markov.Symbol{1, 2, 3, 4})
	out, err := BuildTestString(src, Where)
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())
	for i := 0; i < 4; i++ {
		require.Equal(t, src.Get(i), out.Get(i))
	}
}

func TestBuildTestStringSwapsPairsForWhen(t *testing.T) {
	src := buildBuf([]markov.Symbol{1, 2, 3, 4})
	out, err := BuildTestString(src, When)
	require.NoError(t, err)
	require.Equal(t, markov.Symbol(2), out.Get(0))
	require.Equal(t, markov.Symbol(1), out.Get(1))
	require.Equal(t, markov.Symbol(4), out.Get(2))
	require.Equal(t, markov.Symbol(3), out.Get(3))
}

// A perfectly learned alternating pattern should be predicted correctly
// at every tested position, with no fallback to order 0.
func TestRunTestAllCorrectOnAlternatingPattern(t *testing.T) {
	seq := []markov.Symbol{1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2}
	m := trainAlternating(t, 2, 1, 2, seq)

	test := buildBuf(seq)
	acc, counts, err := RunTest(m, test, Options{Question: Where, ConfidenceLevel: -1})
	require.NoError(t, err)
	require.Equal(t, 7, acc.NumTests) // i = 2,4,...,14
	require.Equal(t, 0, acc.FallbackNum)
	require.Equal(t, acc.NumTests, acc.MostProbNumCorrect)
	require.Len(t, counts, acc.NumTests)
}

func TestAnalyzeResultsEmptyPredictionsNotRecorded(t *testing.T) {
	acc := &Accumulator{}
	_, recorded := analyzeResults(acc, markov.Prediction{}, 1, Options{ConfidenceLevel: -1})
	require.False(t, recorded)
}

func TestAnalyzeResultsFallbackDepthZero(t *testing.T) {
	acc := &Accumulator{}
	pred := markov.Prediction{
		Depth: 0,
		Predictions: []markov.PredictedSymbol{
			{Symbol: 5, Numerator: 3},
			{Symbol: 7, Numerator: 1},
		},
	}
	_, recorded := analyzeResults(acc, pred, 7, Options{ConfidenceLevel: -1})
	require.False(t, recorded)
	require.Equal(t, 1, acc.FallbackNum)
	require.Equal(t, 1, acc.FallbackNumCorrect)
}

func TestAnalyzeResultsFallbackIncorrectNotDoubleCounted(t *testing.T) {
	acc := &Accumulator{}
	pred := markov.Prediction{
		Depth: 0,
		Predictions: []markov.PredictedSymbol{
			{Symbol: 5, Numerator: 3},
		},
	}
	_, recorded := analyzeResults(acc, pred, 99, Options{ConfidenceLevel: -1})
	require.False(t, recorded)
	require.Equal(t, 1, acc.FallbackNum)
	require.Equal(t, 0, acc.FallbackNumCorrect)
}

// Three symbols tied for the top count, one distinct lower symbol: the
// tie group all count as "most probable" and the match is found among
// them.
func TestAnalyzeResultsMostProbTieGroup(t *testing.T) {
	acc := &Accumulator{}
	pred := markov.Prediction{
		Depth: 2,
		Predictions: []markov.PredictedSymbol{
			{Symbol: 1, Numerator: 5},
			{Symbol: 2, Numerator: 5},
			{Symbol: 3, Numerator: 5},
			{Symbol: 4, Numerator: 2},
		},
	}
	pc, recorded := analyzeResults(acc, pred, 3, Options{ConfidenceLevel: -1})
	require.True(t, recorded)
	require.Equal(t, 1, acc.MostProbNumCorrect)
	require.Equal(t, 1, acc.MostProbMultiplePredictions)
	require.Equal(t, 3, pc.NumBestPredictions)
	require.Equal(t, 1, pc.NumLessPredictions)
}

// The first less-probable prediction (immediately after the best tie
// group) must not by itself count as "multiple less probable" — only a
// second or later one does, per the j > index_last_best+1 distinction.
func TestAnalyzeResultsSingleLessProbableIsNotMultiple(t *testing.T) {
	acc := &Accumulator{}
	pred := markov.Prediction{
		Depth: 2,
		Predictions: []markov.PredictedSymbol{
			{Symbol: 1, Numerator: 5},
			{Symbol: 2, Numerator: 2},
		},
	}
	_, recorded := analyzeResults(acc, pred, 2, Options{ConfidenceLevel: -1})
	require.True(t, recorded)
	require.Equal(t, 0, acc.MostProbMultiplePredictions)
	require.Equal(t, 0, acc.LessProbMultiplePredictions)
	require.Equal(t, 1, acc.LessProbNumCorrect)
}

func TestAnalyzeResultsTwoLessProbableIsMultiple(t *testing.T) {
	acc := &Accumulator{}
	pred := markov.Prediction{
		Depth: 2,
		Predictions: []markov.PredictedSymbol{
			{Symbol: 1, Numerator: 5},
			{Symbol: 2, Numerator: 2},
			{Symbol: 3, Numerator: 2},
		},
	}
	_, recorded := analyzeResults(acc, pred, 3, Options{ConfidenceLevel: -1})
	require.True(t, recorded)
	require.Equal(t, 1, acc.LessProbMultiplePredictions)
	require.Equal(t, 1, acc.LessProbNumCorrect)
}

// The confidence-level acceptance walk (WHEN only) accepts the smallest
// prefix whose cumulative probability reaches the configured level, plus
// any entries tied with the last accepted one. Here the first entry
// alone reaches 50%, so the second (the correct symbol) is not accepted.
func TestAnalyzeResultsConfidenceLevelWalk(t *testing.T) {
	acc := &Accumulator{}
	pred := markov.Prediction{
		Depth:       1,
		Denominator: 10,
		Predictions: []markov.PredictedSymbol{
			{Symbol: 1, Numerator: 5},
			{Symbol: 2, Numerator: 3},
			{Symbol: 3, Numerator: 2},
		},
	}
	pc, recorded := analyzeResults(acc, pred, 2, Options{Question: When, ConfidenceLevel: 50})
	require.True(t, recorded)
	require.Equal(t, 0, acc.MostProbNumCorrect)
	require.Equal(t, 1, pc.ConfidencePredictions)
	require.Equal(t, 3, pc.TotalPredictions)
}

func TestClosenessScanWhereNeighbor(t *testing.T) {
	opts := Options{
		Question:  Where,
		Neighbors: NeighborTable{20: {11}},
	}
	candidates := []markov.PredictedSymbol{{Symbol: 10}, {Symbol: 11}}
	neighbor, within10, within20 := closenessScan(candidates, 20, opts)
	require.True(t, neighbor)
	require.False(t, within10)
	require.False(t, within20)
}

func TestClosenessScanWhenTimeWindow(t *testing.T) {
	opts := Options{
		Question:  When,
		TimeIndex: TimeIndex{100: 0, 101: 5, 102: 25},
	}
	candidates := []markov.PredictedSymbol{{Symbol: 102}, {Symbol: 101}}
	neighbor, within10, within20 := closenessScan(candidates, 100, opts)
	require.False(t, neighbor)
	require.True(t, within10)
	require.True(t, within20)
}
