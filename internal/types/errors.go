package types

import "errors"

var (
	// ErrIncompleteAdaptedSet guards the all-four-or-none invariant on
	// Content.AdaptedSummaries.
	ErrIncompleteAdaptedSet = errors.New("adapted summary set is incomplete")
)
