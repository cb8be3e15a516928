package services

import "errors"

// Service-level sentinel errors. Handlers map these to API error responses.
var (
	// ErrInvalidTable is returned when the loaded table is empty or the
	// input lacked required columns; the pipeline halts, nothing renders.
	ErrInvalidTable = errors.New("table is empty or missing required columns")
)

// InvalidTableError wraps ErrInvalidTable with the missing column names.
type InvalidTableError struct {
	MissingColumns []string
}

func (e *InvalidTableError) Error() string {
	return ErrInvalidTable.Error()
}

// Unwrap allows errors.Is(err, ErrInvalidTable) on wrapped instances.
func (e *InvalidTableError) Unwrap() error {
	return ErrInvalidTable
}
