package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by every "absent" outcome so callers can map
// them together.
var ErrNotFound = errors.New("not found")

var (
	ErrTableNotFound  = fmt.Errorf("table %w", ErrNotFound)
	ErrNoPrimaryKey   = fmt.Errorf("primary key %w", ErrNotFound)
	ErrRecordNotFound = fmt.Errorf("record %w", ErrNotFound)

	ErrTableExists = errors.New("table already exists")
)

// ValidationError reports bad client input, optionally naming the
// offending fields.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func missingFields(fields []string) *ValidationError {
	return &ValidationError{
		Fields:  fields,
		Message: "Missing fields: " + strings.Join(fields, ", "),
	}
}

// DatabaseError wraps any driver-level failure. Its detail is for logs,
// never for clients.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func dbError(op string, err error) error {
	return &DatabaseError{Op: op, Err: err}
}
