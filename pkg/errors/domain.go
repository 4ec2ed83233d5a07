package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ConfigError reports missing or invalid environment configuration. It is
// fatal for the request that hit it and is never retried.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// ConnectError reports that the store could not be reached or rejected the
// credentials. Callers may retry.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to store: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// ValidationError names the first offending field of a malformed record.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ReferenceError reports a field pointing at a record that does not exist.
type ReferenceError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference error: %s: %s", e.Field, e.Message)
}

func NewReferenceError(field, message string) *ReferenceError {
	return &ReferenceError{Field: field, Message: message}
}

// UniqueConstraintError is raised when the store rejects a write because a
// unique index already holds the value.
type UniqueConstraintError struct {
	Collection string
	Field      string
	Value      string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("unique constraint violated on %s.%s (%q)", e.Collection, e.Field, e.Value)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}

// ToAppError maps any error returned by the service layer onto the
// transport-facing AppError. Unknown errors become internal errors.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validationErr *ValidationError
	if stderrors.As(err, &validationErr) {
		return Validation(validationErr.Message, map[string]any{
			"field": validationErr.Field,
		})
	}

	var referenceErr *ReferenceError
	if stderrors.As(err, &referenceErr) {
		return Reference(referenceErr.Field, referenceErr.Message, err)
	}

	var uniqueErr *UniqueConstraintError
	if stderrors.As(err, &uniqueErr) {
		return Conflict(fmt.Sprintf("%s %q already exists", uniqueErr.Field, uniqueErr.Value)).
			WithDetails(map[string]any{"field": uniqueErr.Field})
	}

	var connectErr *ConnectError
	if stderrors.As(err, &connectErr) {
		return Unavailable("Database", err)
	}

	var configErr *ConfigError
	if stderrors.As(err, &configErr) {
		return Misconfigured(err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return Timeout("Request timed out")
	}

	return Internal("An unexpected error occurred", err)
}

// IsClassified reports whether err already carries a transport mapping and
// should reach the caller unchanged instead of being wrapped as internal.
func IsClassified(err error) bool {
	if err == nil {
		return false
	}

	var (
		appErr        *AppError
		validationErr *ValidationError
		referenceErr  *ReferenceError
		uniqueErr     *UniqueConstraintError
		connectErr    *ConnectError
		configErr     *ConfigError
	)
	return stderrors.As(err, &appErr) ||
		stderrors.As(err, &validationErr) ||
		stderrors.As(err, &referenceErr) ||
		stderrors.As(err, &uniqueErr) ||
		stderrors.As(err, &connectErr) ||
		stderrors.As(err, &configErr) ||
		stderrors.Is(err, context.DeadlineExceeded)
}
