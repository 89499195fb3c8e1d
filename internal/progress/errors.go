package progress

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every ValidationError.
var ErrOutOfRange = errors.New("index out of range")

// ValidationError reports an index outside 0-9.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %d out of range 0-%d", e.Field, e.Value, Size-1)
}

// Unwrap lets callers match with errors.Is(err, ErrOutOfRange).
func (e *ValidationError) Unwrap() error {
	return ErrOutOfRange
}

func checkIndex(field string, v int) error {
	if v < 0 || v >= Size {
		return &ValidationError{Field: field, Value: v}
	}
	return nil
}
