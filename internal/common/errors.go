// Package common provides shared utilities and types used across the
// application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Engine errors.
	ErrNoData = errors.New("no data loaded")

	// Data-source errors.
	ErrSourceUnavailable = errors.New("data source unavailable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SchemaError reports required columns missing from a CSV header. It is
// fatal to the load attempt that produced it; the previously loaded
// dataset stays intact.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError describes a single data line that failed normalization. Row
// errors never abort a load; the row is dropped and counted.
type RowError struct {
	Err    error
	Reason string
	Line   int
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
