package board

import "errors"

// Errors surfaced by the mutation coordinator. Anything else coming out of a
// coordinator call is a storage failure; the transaction it belonged to has
// been rolled back and the call may be retried as a whole.
var (
	// ErrNotFound is returned when the subject card, column or tag does not exist
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the requester does not own a privately-scoped
	// entity and it is not a shared system-level one
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidPosition is returned when a destination position falls outside
	// the valid range for its container. Positions are never clamped.
	ErrInvalidPosition = errors.New("invalid position")
)
