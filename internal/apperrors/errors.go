// Package apperrors defines the error taxonomy shared across layers.
//
// Not-found conditions are not represented here: repositories and the
// orchestrator report them as nil results, and only the HTTP layer turns
// them into a 404.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid caller input, including unusable image
// payloads discovered during metadata extraction.
type ValidationError struct {
	msg string
}

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports a missing storage object on the read path. Missing
// database rows are reported as nil results instead.
type NotFoundError struct {
	msg string
}

func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return e.msg
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// ConflictError reports a concurrency-token mismatch detected before a
// mutation is admitted.
type ConflictError struct {
	msg string
}

func NewConflict(format string, args ...any) *ConflictError {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return e.msg
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// InfraError wraps a transport fault from the object store, database or
// cache. It propagates uncaught except at fire-and-forget boundaries.
type InfraError struct {
	op  string
	err error
}

func NewInfra(op string, err error) *InfraError {
	return &InfraError{op: op, err: err}
}

func (e *InfraError) Error() string {
	if e.err == nil {
		return e.op
	}
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *InfraError) Unwrap() error {
	return e.err
}

func IsInfra(err error) bool {
	var ie *InfraError
	return errors.As(err, &ie)
}
