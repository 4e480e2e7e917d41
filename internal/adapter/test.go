package adapter

import markov "github.com/iburbey/predict-markov"

// Accumulator holds the running test-suite counters predict.c's global
// variables (num_tested, FallbackNum, MostProb_*, LessProb_*, ...)
// tracked across an entire RunTest call.
type Accumulator struct {
	NumTests int

	FallbackNum        int
	FallbackNumCorrect int

	MostProbNumCorrect          int
	MostProbNeighborCorrect     int
	MostProbWithin10Minutes     int
	MostProbWithin20Minutes     int
	MostProbMultiplePredictions int
	LessProbNumCorrect          int
	LessProbNeighborCorrect     int
	LessProbWithin10Minutes     int
	LessProbWithin20Minutes     int
	LessProbMultiplePredictions int
}

// PredictionCount records, for one tested position, how many
// predictions were returned and how many were actually used — the row
// predict.c appends to num_pred.csv.
type PredictionCount struct {
	NumBestPredictions    int
	NumLessPredictions    int
	ConfidencePredictions int
	TotalPredictions      int
}

// Options configures a RunTest call: which research question is being
// answered, the confidence-level acceptance threshold (-1 disables it),
// the symbol classifier, and the optional closeness tables for grading
// a wrong prediction as "close."
type Options struct {
	Question        ResearchQuestion
	ConfidenceLevel int
	Classifier      Classifier
	Neighbors       NeighborTable
	TimeIndex       TimeIndex
}

// BuildTestString returns test unchanged for Where, or with adjacent
// Time,Location pairs swapped to Location,Time for When. Grounded on
// predict.c's build_test_string; it assumes — as the original does —
// that the trace has even length when question is When.
func BuildTestString(test *markov.SymbolBuffer, question ResearchQuestion) (*markov.SymbolBuffer, error) {
	length := test.Len()
	if question != When {
		clone := markov.NewSymbolBuffer(length)
		if err := clone.CopySlice(test, 0, length); err != nil {
			return nil, err
		}
		return clone, nil
	}
	dest := markov.NewSymbolBuffer(length)
	for i := 0; i < length; i++ {
		if i%2 == 1 {
			dest.Put(i-1, test.Get(i))
		} else if i+1 < length {
			dest.Put(i+1, test.Get(i))
		}
	}
	return dest, nil
}

// RunTest walks working, predicting every other symbol from the
// preceding order-length context, and folds each result into acc.
// Returns one PredictionCount per scored position (fallback-to-order-0
// positions are not counted, matching predict.c). Grounded on
// predict.c's predict_test.
func RunTest(m *markov.Model, test *markov.SymbolBuffer, opts Options) (*Accumulator, []PredictionCount, error) {
	working, err := BuildTestString(test, opts.Question)
	if err != nil {
		return nil, nil, err
	}
	length := working.Len()
	order := m.Order()
	acc := &Accumulator{}
	var counts []PredictionCount

	for i := order; i < length; i += 2 {
		acc.NumTests++

		start := i - order
		if start < 0 {
			start = 0
		}
		n := i - start
		ctx := markov.NewSymbolBuffer(n)
		if err := ctx.CopySlice(working, start, n); err != nil {
			return nil, nil, err
		}

		pred, err := m.PredictNext(ctx)
		if err != nil {
			return nil, nil, err
		}

		correct := working.Get(i)
		pc, recorded := analyzeResults(acc, pred, correct, opts)
		if recorded {
			counts = append(counts, pc)
		}
	}
	return acc, counts, nil
}

// analyzeResults folds one prediction's outcome into acc, implementing
// predict.c's analyze_pred_results: fallback accounting, most/less
// likely correctness, neighbor/time-window closeness, and — when a
// confidence level is configured for WHEN — the confidence-level
// acceptance walk. recorded is false for predictions with no candidates
// or for fallback-to-order-0 predictions, matching the original's early
// returns before its num_pred.csv write.
func analyzeResults(acc *Accumulator, pred markov.Prediction, correct markov.Symbol, opts Options) (PredictionCount, bool) {
	if len(pred.Predictions) == 0 {
		return PredictionCount{}, false
	}

	if pred.Depth == 0 {
		acc.FallbackNum++
		for j := 1; j < len(pred.Predictions); j++ {
			if pred.Predictions[j].Symbol == correct {
				acc.FallbackNumCorrect++
				break
			}
		}
		return PredictionCount{}, false
	}

	bestCount := pred.Predictions[0].Numerator
	indexLastBest := 0
	numBest := 1
	numLess := 0
	multipleBest := false
	multipleLess := false
	for j := 1; j < len(pred.Predictions); j++ {
		switch {
		case pred.Predictions[j].Numerator == bestCount:
			multipleBest = true
			indexLastBest = j
			numBest++
		case j > indexLastBest+1:
			multipleLess = true
			numLess++
		default:
			numLess++
		}
	}
	if multipleBest {
		acc.MostProbMultiplePredictions++
	}
	if multipleLess {
		acc.LessProbMultiplePredictions++
	}

	if opts.ConfidenceLevel == -1 || opts.Question == Where {
		pc := PredictionCount{
			NumBestPredictions: numBest,
			NumLessPredictions: numLess,
			TotalPredictions:   len(pred.Predictions),
		}

		correctMost := false
		for j := 0; j <= indexLastBest && !correctMost; j++ {
			if pred.Predictions[j].Symbol == correct {
				correctMost = true
				acc.MostProbNumCorrect++
			}
		}
		if !correctMost {
			isNeighbor, within10, within20 := closenessScan(pred.Predictions[:indexLastBest+1], correct, opts)
			if isNeighbor {
				acc.MostProbNeighborCorrect++
			}
			if within10 {
				acc.MostProbWithin10Minutes++
			}
			if within20 {
				acc.MostProbWithin20Minutes++
			}
		}

		correctLess := false
		for j := indexLastBest + 1; j < len(pred.Predictions) && !correctLess; j++ {
			if pred.Predictions[j].Symbol == correct {
				correctLess = true
				acc.LessProbNumCorrect++
			}
		}
		if !correctLess {
			isNeighbor, within10, within20 := closenessScan(pred.Predictions[indexLastBest+1:], correct, opts)
			if isNeighbor {
				acc.LessProbNeighborCorrect++
			}
			if within10 {
				acc.LessProbWithin10Minutes++
			}
			if within20 {
				acc.LessProbWithin20Minutes++
			}
		}
		return pc, true
	}

	// Confidence-level acceptance walk (WHEN only): accept the smallest
	// (non-empty) prefix whose cumulative probability reaches the level,
	// then every following entry tied with the last accepted numerator.
	fConfidence := float64(opts.ConfidenceLevel) / 100.0
	probSum := 0.0
	j := 0
	for j < len(pred.Predictions) && (j == 0 || probSum < fConfidence) {
		probSum += float64(pred.Predictions[j].Numerator) / float64(pred.Denominator)
		j++
	}
	for j < len(pred.Predictions) && pred.Predictions[j].Numerator == pred.Predictions[j-1].Numerator {
		j++
	}
	for k := 0; k < j; k++ {
		if pred.Predictions[k].Symbol == correct {
			acc.MostProbNumCorrect++
			break
		}
	}
	return PredictionCount{ConfidencePredictions: j, TotalPredictions: len(pred.Predictions)}, true
}

// closenessScan checks a slice of wrong predictions for WHERE-neighbor
// or WHEN-time-window closeness to correct. WHERE stops at the first
// neighbor. WHEN stops at the first candidate within 10 minutes; a
// within-20 hit is remembered and the scan goes on looking for a
// within-10 one.
func closenessScan(candidates []markov.PredictedSymbol, correct markov.Symbol, opts Options) (neighbor, within10, within20 bool) {
	for _, cand := range candidates {
		if opts.Question == Where {
			neighbor = opts.Neighbors.IsNeighbor(cand.Symbol, correct)
			if neighbor {
				return
			}
			continue
		}
		within10 = WithinWindow(opts.TimeIndex, cand.Symbol, correct, 10)
		if !within20 {
			within20 = WithinWindow(opts.TimeIndex, cand.Symbol, correct, 20)
		}
		if within10 {
			return
		}
	}
	return
}
