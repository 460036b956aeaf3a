package services

import "errors"

var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("not found")
	// ErrConflict maps to 409, e.g. an event at capacity.
	ErrConflict = errors.New("conflict")
	// ErrForbidden maps to 403.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation maps to 422.
	ErrValidation = errors.New("validation failed")
)
