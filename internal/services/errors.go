package services

import "errors"

// Errors shared across services. Handlers match on these with errors.Is to
// pick the HTTP status.
var (
	ErrValidation = errors.New("validation error")
)
