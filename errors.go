package ecsact

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for metadata lookups.
var (
	// ErrNotFound is returned when a requested declaration or package does
	// not exist.
	ErrNotFound = errors.New("ecsact: declaration not found")

	// ErrDuplicate is returned when two declarations claim the same id or
	// full name.
	ErrDuplicate = errors.New("ecsact: duplicate declaration")

	// ErrInvalidSchema is matched by every SchemaError.
	ErrInvalidSchema = errors.New("ecsact: invalid schema")

	// ErrValidationFailed is matched by every ValidationError.
	ErrValidationFailed = errors.New("ecsact: validation failed")
)

// NotFoundError represents a lookup of a declaration that does not exist.
type NotFoundError struct {
	label string
	id    any // Optional: the id or name that was looked up
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("ecsact: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("ecsact: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the declaration label, e.g. "component".
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the id that was looked up, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given label.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError carrying the id that
// was looked up.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// DuplicateError reports two declarations sharing an id or full name.
type DuplicateError struct {
	label string
	key   any
	first string
	again string
}

// Error returns the error string.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("ecsact: duplicate %s %v (%s and %s)", e.label, e.key, e.first, e.again)
}

// Is reports whether the target error matches DuplicateError.
func (e *DuplicateError) Is(err error) bool {
	return err == ErrDuplicate
}

// NewDuplicateError returns a new DuplicateError. first and again name the
// two colliding declarations.
func NewDuplicateError(label string, key any, first, again string) *DuplicateError {
	return &DuplicateError{label: label, key: key, first: first, again: again}
}

// IsDuplicate returns true if the error is a DuplicateError.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateError
	return errors.As(err, &e) || errors.Is(err, ErrDuplicate)
}

// SchemaError reports a reference between declarations that does not
// resolve, or resolves to something the referring declaration cannot use.
type SchemaError struct {
	Decl    string // Declaration label, e.g. "component game.Position"
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("ecsact: schema error")
	if e.Decl != "" {
		b.WriteString(" on ")
		b.WriteString(e.Decl)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches SchemaError.
func (e *SchemaError) Is(err error) bool {
	return err == ErrInvalidSchema
}

// NewSchemaError returns a new SchemaError.
func NewSchemaError(decl, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Decl:    decl,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// ValidationError reports a structural problem inside a single package
// snapshot.
type ValidationError struct {
	Decl    string
	Field   string
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("ecsact: validation error")
	if e.Decl != "" {
		b.WriteString(" on ")
		b.WriteString(e.Decl)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches ValidationError.
func (e *ValidationError) Is(err error) bool {
	return err == ErrValidationFailed
}

// NewValidationError returns a new ValidationError.
func NewValidationError(decl, field string, value any, message string) *ValidationError {
	return &ValidationError{
		Decl:    decl,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
