// Package errors wraps a plain error with a numeric code so callers can
// branch on error category without string-matching a message.
//
// Codes are banded by concern:
//
//   - 1-99:    uncategorized
//
//   - 100-199: validation (bad config, bad params, insufficient data)
//
//   - 200-299: data/resource (missing rows, query failures, duplicate keys)
//
//   - 300-399: strategy registry (not found, duplicate name, construction)
//
//   - 400-499: price oracle (no usable price, staleness, stream failure)
//
//   - 500-599: risk gate + account lookups (these are control-flow outcomes
//     for the risk codes, not failures — see spec §7)
//
//   - 700-799: venue I/O (HTTP/WS request, parse, timeout)
//
//     err := errors.Newf(errors.ErrCodeDataNotFound, "no candle for %s", asset)
//     if errors.HasCode(err, errors.ErrCodeDataNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is a code-carrying error, optionally chained to a cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap exposes Cause to the standard errors.Is/As machinery.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error with no cause.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and message to an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is delegates to the standard library so *Error participates normally in
// errors.Is chains.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As delegates to the standard library so *Error participates normally in
// errors.As chains.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode walks err's chain for an *Error and returns its code, or
// ErrCodeUnknown if none is found.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError flags a calculation that needed more history than
// it was given (an indicator window, a funding-OI lookback, ...).
type InsufficientDataError struct {
	Required int
	Actual   int
	Symbol   string
	Message  string
}

func (e *InsufficientDataError) Error() string {
	return e.Message
}

// NewInsufficientDataError builds an InsufficientDataError with a literal message.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{Required: required, Actual: actual, Symbol: symbol, Message: message}
}

// NewInsufficientDataErrorf builds an InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsInsufficientDataError reports whether err's chain contains an
// InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var target *InsufficientDataError

	return errors.As(err, &target)
}
