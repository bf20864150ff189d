// Package apperror holds the error taxonomy shared by services and the HTTP
// boundary. Services return these; serverutils.ErrorHandler maps them to
// status codes and JSON bodies.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated      = errors.New("unauthorized")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrNotFound             = errors.New("not found")
)

// ValidationError is malformed client input. Message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// QuotaExceededError carries the caller's usage so the client can render a paywall.
type QuotaExceededError struct {
	Count int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("free message limit reached (%d/%d)", e.Count, e.Limit)
}

// UpstreamError wraps a completion API failure. The wrapped error is for logs only.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
