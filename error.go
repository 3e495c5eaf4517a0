package crawler

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	EFETCH     = "fetch"
	EEXHAUSTED = "exhausted"
)

// ErrExhausted is returned by a URLQueue that has permanently run out of URLs.
var ErrExhausted = &Error{Code: EEXHAUSTED, Message: "url queue exhausted"}

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	// StatusCode is the HTTP status behind an EFETCH error, or zero.
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so that
// errors.Is(err, ErrExhausted) matches any exhaustion error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// StatusErrorf returns an EFETCH error for a response with the given HTTP status.
func StatusErrorf(status int, format string, args ...any) *Error {
	return &Error{
		Code:       EFETCH,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: status,
	}
}

// ErrorStatus unwraps an application error and returns its HTTP status.
// Errors without one return zero.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}
