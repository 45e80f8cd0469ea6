package domain

import "errors"

// Error kinds returned by the lifecycle. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrDeadlineExpired = errors.New("pickup deadline expired")
	ErrUnauthorized    = errors.New("not authorized")
	ErrStorage         = errors.New("storage failure")
)
