// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrSchemaMismatch = errors.New("header does not match expected schema")
	ErrDateParse      = errors.New("invalid date")
	ErrNumberParse    = errors.New("invalid number")
	ErrMissingField   = errors.New("missing required field")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

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

// ConfigError reports a setting that could not be parsed or validated.
type ConfigError struct {
	Err   error
	Key   string
	Value string
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s=%q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("config %s=%q: invalid value", e.Key, e.Value)
}

// Unwrap lets callers match both the sentinel and the cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidConfig}
	}
	return []error{ErrInvalidConfig, e.Err}
}

// NewConfigError creates a ConfigError for the given setting.
func NewConfigError(key, value string, err error) error {
	return &ConfigError{Key: key, Value: value, Err: err}
}
