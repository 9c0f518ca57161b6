package shared

import "errors"

var (
	// ErrNotFound indicates a referenced resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates invalid caller input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a concurrent write lost the race and must retry.
	ErrConflict = errors.New("conflict")
	// ErrInsufficientStock indicates a stock decrement would go negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)
