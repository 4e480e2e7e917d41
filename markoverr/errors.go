// Package markoverr defines the fatal error kinds the core trie can
// surface, per spec.md §7: allocation failure, invariant violation, and
// escape exhaustion. None of these are retried inside the core;
// propagation is upward to the caller (the adapter or cmd/predict).
package markoverr

import "github.com/pkg/errors"

// AllocationError reports that the trie could not grow — fatal, since a
// partial update would leave invariants broken and there is no recovery
// path (spec.md §7).
type AllocationError struct {
	cause error
}

func NewAllocationError(format string, args ...interface{}) error {
	return &AllocationError{cause: errors.Errorf(format, args...)}
}

func (e *AllocationError) Error() string { return "markov: allocation error: " + e.cause.Error() }
func (e *AllocationError) Unwrap() error { return e.cause }

// InvariantError reports a symbol outside the configured alphabet, a
// context longer than the model order, or a corrupt stat-array tail —
// indicative of a caller bug, per spec.md §7.
type InvariantError struct {
	cause error
}

func NewInvariantError(format string, args ...interface{}) error {
	return &InvariantError{cause: errors.Errorf(format, args...)}
}

func (e *InvariantError) Error() string { return "markov: invariant violation: " + e.cause.Error() }
func (e *InvariantError) Unwrap() error { return e.cause }

// ProtocolError reports that ConvertIntToSymbol was called with
// current order already at -2 on a non-control symbol — escape
// exhaustion, per spec.md §7.
type ProtocolError struct {
	cause error
}

func NewProtocolError(format string, args ...interface{}) error {
	return &ProtocolError{cause: errors.Errorf(format, args...)}
}

func (e *ProtocolError) Error() string { return "markov: protocol error: " + e.cause.Error() }
func (e *ProtocolError) Unwrap() error { return e.cause }
