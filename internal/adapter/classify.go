// Package adapter implements the WHERE/WHEN mobility-trace prediction
// surface over the markov package: symbol-kind classification, the
// training drivers, the prediction/log-loss test driver with
// confidence-level acceptance and fallback accounting, and the
// pluggable neighbour/time-window closeness scoring predict.c used to
// grade a wrong-but-close prediction.
package adapter

import markov "github.com/iburbey/predict-markov"

// SymbolKind classifies a symbol's role within an encoded mobility
// trace, mirroring predict.c's LOC/STRT/DUR/DELIM constants.
type SymbolKind int

const (
	Location SymbolKind = iota
	StartTime
	Duration
	Delimiter
)

func (k SymbolKind) String() string {
	switch k {
	case Location:
		return "LOC"
	case StartTime:
		return "STRT"
	case Duration:
		return "DUR"
	default:
		return "DELIM"
	}
}

// Representation selects which classification windows Classifier
// applies, matching predict.c's -input_type values. Only the two
// windowed, binary-encoded representations that survived into the
// 16-bit model (binboxstrings, bindowts) are implemented; the
// delimiter-based text representations (locstrings, loctimestrings,
// boxstrings) belonged to an earlier 8-bit text encoding predict.c
// itself flags as superseded ("The 16-bit version does not currently
// support delimiter-removal").
type Representation int

const (
	Unknown Representation = iota
	BinBoxStrings
	BinDOWTimeslots
)

// Classifier holds the symbol-value windows get_binboxstring_type and
// get_bindowts_type use to classify a symbol without any positional or
// stateful bookkeeping.
type Classifier struct {
	Representation Representation

	InitialStartTime, FinalStartTime markov.Symbol
	InitialDuration, FinalDuration   markov.Symbol
	InitialLocation, FinalLocation   markov.Symbol
}

// AlphabetRange returns the inclusive [low, high] symbol span a Model
// trained under this classifier's representation should be constructed
// with — the window model.h calls LOWEST_SYMBOL/RANGE_OF_SYMBOLS, tying
// the null table's size to the adapter's active configuration rather
// than a hardcoded constant. Only the location and start-time windows
// participate (LOWEST_SYMBOL is INITIAL_LOCATION in model.h); duration
// symbols are classifiable but fall outside the trained alphabet, per
// model.h's own "not used for MELT version" comment on INITIAL_DURATION.
func (c Classifier) AlphabetRange() (markov.Symbol, markov.Symbol) {
	low := c.InitialLocation
	if c.InitialStartTime < low {
		low = c.InitialStartTime
	}
	high := c.FinalStartTime
	if c.FinalLocation > high {
		high = c.FinalLocation
	}
	return low, high
}

// Classify reports symbol's kind under the configured representation.
// Grounded on predict.c's get_binboxstring_type/get_bindowts_type.
func (c Classifier) Classify(symbol markov.Symbol) SymbolKind {
	switch c.Representation {
	case BinBoxStrings:
		switch {
		case symbol >= c.InitialStartTime && symbol <= c.FinalStartTime:
			return StartTime
		case symbol >= c.InitialDuration && symbol <= c.FinalDuration:
			return Duration
		case symbol >= c.InitialLocation && symbol <= c.FinalLocation:
			return Location
		}
		return Delimiter
	case BinDOWTimeslots:
		switch {
		case symbol >= c.InitialStartTime && symbol <= c.FinalStartTime:
			return StartTime
		case symbol >= c.InitialLocation && symbol <= c.FinalLocation:
			return Location
		}
		return Delimiter
	default:
		return Delimiter
	}
}
