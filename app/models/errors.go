package models

import "errors"

// Sentinel errors shared by the repository and service layers.
// Controllers map these onto HTTP statuses.
var (
	// ErrNotFound means the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the request clashes with current state, such as
	// cancelling a delivered order or re-requesting seller status.
	ErrConflict = errors.New("conflict with current state")

	// ErrInsufficientStock means the plant has fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition means the order status change is not allowed
	// from the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrBadInput means a request value failed semantic validation,
	// such as an unknown role or status name.
	ErrBadInput = errors.New("invalid input")
)
