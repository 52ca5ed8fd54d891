// Package common holds the sentinel errors, logging setup and retry helper
// shared by every finpilot package.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Caller contract violations: unknown field paths, goal index out of range.
	ErrProgramming = errors.New("programming error")

	// Request orchestration errors.
	ErrSubmitInFlight = errors.New("a request is already in flight")
	ErrNoPlan         = errors.New("no plan has been generated")

	// Remote service errors.
	ErrRemote            = errors.New("planning service error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrRateLimit         = errors.New("rate limit exceeded")

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

// UserMessage returns the message to display for err. UserError messages are
// returned without the wrapped cause; anything else is returned as-is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsProgramming reports whether err is a caller contract violation.
func IsProgramming(err error) bool {
	return errors.Is(err, ErrProgramming)
}
