// Package errors provides structured error types for honeycomb.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code], so the CLI, the HTTP server and the page renderers pick a
// fallback without matching on strings. Codes map to HTTP statuses through
// [Code.Status].
//
//	err := errors.New(errors.ErrCodeProjectNotFound, "Project %q not found.", id)
//	if errors.Is(err, errors.ErrCodeProjectNotFound) {
//	    // render the "not found" page
//	}
//
//	err = errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch catalog %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidViewport Code = "INVALID_VIEWPORT"
	ErrCodeInvalidCatalog  Code = "INVALID_CATALOG"
	ErrCodeInvalidEvent    Code = "INVALID_EVENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidID       Code = "INVALID_ID"
	ErrCodeMissingID       Code = "MISSING_ID"

	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeProjectNotFound   Code = "PROJECT_NOT_FOUND"
	ErrCodeDetailUnavailable Code = "DETAIL_UNAVAILABLE" // the project exists but has no page data
	ErrCodeSessionNotFound   Code = "SESSION_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statuses = map[Code]int{
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidViewport:   http.StatusBadRequest,
	ErrCodeInvalidCatalog:    http.StatusBadRequest,
	ErrCodeInvalidEvent:      http.StatusBadRequest,
	ErrCodeInvalidFormat:     http.StatusBadRequest,
	ErrCodeInvalidID:         http.StatusBadRequest,
	ErrCodeMissingID:         http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeProjectNotFound:   http.StatusNotFound,
	ErrCodeDetailUnavailable: http.StatusNotFound,
	ErrCodeSessionNotFound:   http.StatusNotFound,
	ErrCodeFileNotFound:      http.StatusNotFound,
	ErrCodeNetwork:           http.StatusBadGateway,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeUnsupported:       http.StatusNotImplemented,
}

// Status is the HTTP status the server answers with for c. Unknown codes
// are internal errors.
func (c Code) Status() int {
	if s, ok := statuses[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a message fit for a visitor and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e := as(err); e != nil {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error in err's chain,
// without its code, or err.Error() for other errors.
func UserMessage(err error) string {
	if e := as(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the server answers with.
func HTTPStatus(err error) int { return GetCode(err).Status() }

func as(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
