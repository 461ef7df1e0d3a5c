package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

var ErrInternal = fmt.Errorf("internal error")
var ErrNotFound = fmt.Errorf("not found")
var ErrRequest = fmt.Errorf("request error")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrMapping = fmt.Errorf("mapping error")
var ErrValidation = fmt.Errorf("validation error")
var ErrLeaseConflict = fmt.Errorf("lease conflict")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

// NewMappingError reports a configuration or programming error in the entity
// mapping, such as an unknown type or an enum value without an IRI.
func NewMappingError(format string, args ...any) error {
	return &myError{
		msg:    fmt.Sprintf(format, args...),
		target: ErrMapping,
	}
}

func NewLeaseConflictError(key string) error {
	return &myError{
		msg:    fmt.Sprintf("write lease for %s is held by another writer", key),
		target: ErrLeaseConflict,
	}
}

// Violation is a single failed validation rule
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Violations []Violation
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		parts = append(parts, violation.Field+": "+violation.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(violations []Violation) error {
	return &ValidationError{Violations: violations}
}

// IsTerminal reports whether retrying the operation that produced err can
// never succeed.
func IsTerminal(err error) bool {
	return stderrors.Is(err, ErrValidation) || stderrors.Is(err, ErrMapping)
}
