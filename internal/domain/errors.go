package domain

import "errors"

// Sentinel error kinds. Callers wrap them with context via fmt.Errorf("%w")
// and the HTTP layer maps them to status codes with errors.Is.
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
)
