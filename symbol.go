// Package markov implements a variable-order finite-context Markov
// predictor over a 16-bit symbol alphabet: a prediction suffix trie with
// escape-aware probability scaling, update exclusion, and suffix links,
// used to answer WHERE ("where will the subject be") and WHEN ("when will
// the subject be at location x") queries over mobility traces.
package markov

// Symbol is a signed alphabet value. Positive values are ordinary
// symbols; Escape/Flush/Done are reserved sentinels understood only at
// the API boundary (never present in a training or test file).
type Symbol int32

const (
	// Done signals end of stream to the order -2 control table.
	Done Symbol = -1
	// Flush signals a model flush to the order -2 control table.
	Flush Symbol = -2
	// Escape is the event code returned when a context has not yet
	// seen a symbol, triggering fallback to a shorter context.
	Escape Symbol = -3
)

// MaximumScale bounds the cumulative count totalize_table may produce
// before a node must be rescaled (the historic arithmetic coder's
// register width; retained here as the scale threshold for probability
// tables, per spec.md invariant 5).
const MaximumScale int64 = 16383
