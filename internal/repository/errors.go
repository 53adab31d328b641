package repository

import "errors"

// Common repository errors
var (
	// ErrColumnNotFound is returned when a column is not found
	ErrColumnNotFound = errors.New("column not found")

	// ErrTagNotFound is returned when a tag is not found
	ErrTagNotFound = errors.New("tag not found")
)

// NoUpperBound marks a position shift with no upper limit.
const NoUpperBound = 1<<31 - 1
