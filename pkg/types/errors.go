package types

import "errors"

// Domain errors for type validation
var (
	// ErrNameRequired is returned when a patient record has an empty name
	ErrNameRequired = errors.New("patient name is required")
)
