package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidReferenceType indicates an unknown reference type string
	ErrInvalidReferenceType = errors.New("invalid reference type")

	// ErrInvalidSeverity indicates an unknown severity string
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrInvalidConflictStatus indicates an unknown conflict status string
	ErrInvalidConflictStatus = errors.New("invalid conflict status")
)
