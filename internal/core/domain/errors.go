// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Code is a machine-readable rejection reason.
type Code string

const (
	CodeInvalidRequest          Code = "INVALID_REQUEST"
	CodeInvalidDelta            Code = "INVALID_DELTA"
	CodeInsufficientQuantity    Code = "INSUFFICIENT_QUANTITY"
	CodeCapacityExceeded        Code = "CAPACITY_EXCEEDED"
	CodeNotStackable            Code = "NOT_STACKABLE"
	CodePlacementNotFound       Code = "PLACEMENT_NOT_FOUND"
	CodeDuplicatePlacement      Code = "DUPLICATE_PLACEMENT"
	CodeConcurrentModification  Code = "CONCURRENT_MODIFICATION"
	CodeTimeout                 Code = "TIMEOUT"
	CodePersistenceFailure      Code = "PERSISTENCE_FAILURE"
	CodeNotFound                Code = "NOT_FOUND"
	CodeInvalidStatusTransition Code = "INVALID_STATUS_TRANSITION"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrInvalidRequest          = &Error{Code: CodeInvalidRequest}
	ErrInvalidDelta            = &Error{Code: CodeInvalidDelta}
	ErrInsufficientQuantity    = &Error{Code: CodeInsufficientQuantity}
	ErrCapacityExceeded        = &Error{Code: CodeCapacityExceeded}
	ErrNotStackable            = &Error{Code: CodeNotStackable}
	ErrPlacementNotFound       = &Error{Code: CodePlacementNotFound}
	ErrDuplicatePlacement      = &Error{Code: CodeDuplicatePlacement}
	ErrConcurrentModification  = &Error{Code: CodeConcurrentModification}
	ErrTimeout                 = &Error{Code: CodeTimeout}
	ErrPersistenceFailure      = &Error{Code: CodePersistenceFailure}
	ErrNotFound                = &Error{Code: CodeNotFound}
	ErrInvalidStatusTransition = &Error{Code: CodeInvalidStatusTransition}
)

// Error is a ledger rejection. Details carries the numeric context of the
// rejection (requested, available, max_weight, ...).
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

// NewError creates a ledger error with a formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a ledger error around an underlying cause.
func WrapError(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	} else {
		msg = string(e.Code) + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ledger error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy of e with an added detail.
func (e *Error) With(key string, value any) *Error {
	out := *e
	out.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		out.Details[k] = v
	}
	out.Details[key] = value
	return &out
}

// CodeOf extracts the ledger code from err, or "" when err is not a ledger error.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsRetryable reports whether the operation may succeed when repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
