package loader

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput = errors.New("input has no header line")
	ErrFieldCount = errors.New("wrong number of fields")
)

// RecordError identifies the input line and field that failed to parse.
type RecordError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s=%q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
