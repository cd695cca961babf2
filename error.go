package sentiread

import (
	"context"
	"errors"
	"fmt"
)

// Error codes. The values double as the error taxonomy reported to callers
// in FetchResult.ErrorType and AnalysisResult.ErrorType.
const (
	EINVALID     = "validation"
	EBOTDETECTED = "bot-detection"
	ENETWORK     = "network"
	ENOTFOUND    = "not-found"
	EFORBIDDEN   = "forbidden"
	ECONTENT     = "content"
	EPARSING     = "parsing"
	EINTERNAL    = "general"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Underlying cause, if any. errors.Is and errors.As see through it.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("sentiread error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL. A nil error returns "".
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
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Interrupted reports a canceled or expired ctx as an ENETWORK error that
// still matches context.Canceled or context.DeadlineExceeded. It returns
// nil while ctx is live.
func Interrupted(ctx context.Context, op string) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	return &Error{Code: ENETWORK, Message: op + ": " + err.Error(), Err: err}
}
