package custom_error

import (
	"fmt"
	"strings"
)

// ValidationError collects per-field messages detected before any write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// DuplicateAssetTagError signals the uniqueness pre-check failed.
type DuplicateAssetTagError struct {
	Tag string
}

func (e *DuplicateAssetTagError) Error() string {
	return fmt.Sprintf("asset tag %s is already registered", e.Tag)
}

// StaleReferenceError signals the operation target is no longer present in
// the locally synced state, usually after a concurrent delete.
type StaleReferenceError struct {
	ID int
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("equipment %d is not present in the current inventory state", e.ID)
}

// ReadError wraps one-time fetch failures from the store.
type ReadError struct {
	Entity string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Entity, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps create/update/delete failures from the store.
type WriteError struct {
	Entity string
	Op     string // create, update, delete, return
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// QueryError wraps filtered query failures from the store.
type QueryError struct {
	Entity string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to query %s: %v", e.Entity, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// UniqueViolationError maps PostgreSQL code 23505.
type UniqueViolationError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// ForeignKeyViolationError maps PostgreSQL code 23503.
type ForeignKeyViolationError struct {
	message string
	code    string
}

func (e *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// WrapDBError converts a raw PostgreSQL error code into a typed error.
func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &UniqueViolationError{message: message, code: code}
	case "23503":
		return &ForeignKeyViolationError{message: message, code: code}
	default:
		return fmt.Errorf("database error %s: %s", code, message)
	}
}
