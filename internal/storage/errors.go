package storage

import (
	"errors"
)

var (
	// ErrUnavailable is returned when the runtime has no usable persistent storage
	ErrUnavailable = errors.New("persistent storage unavailable")
)

// EngineError is returned when SQLite rejects a statement (syntax error,
// constraint violation, missing table). The engine's message is kept verbatim.
type EngineError struct {
	Op  string // "query" or "exec"
	SQL string
	Err error
}

func (e *EngineError) Error() string {
	return e.Err.Error()
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsEngineError reports whether err wraps an *EngineError
func IsEngineError(err error) bool {
	var engineErr *EngineError
	return errors.As(err, &engineErr)
}
