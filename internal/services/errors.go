package services

import "errors"

// Error kinds shared by all services. Specific errors wrap one of these so
// handlers can map them to a status without knowing every case.
var (
	ErrValidation         = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)
