// Package errors is sentibot's coded error type
// import it as perr; each ErrorCode fixes the HTTP status and the numeric code in envelopes
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the numeric failure class sent on the wire; append new codes only
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic is a recovered panic in a turn or handler
	ErrorCodePanic
	// ErrorCodeUnavailable is a dependency that is down or was never opened
	ErrorCodeUnavailable
	ErrorCodeInvalidArgument
	// ErrorCodeValidation covers request bodies and reply packs that break their rules
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDB
	// ErrorCodeScoring means the scorer produced no score
	ErrorCodeScoring
	// ErrorCodeDetection means the language could not be identified
	ErrorCodeDetection
	// ErrorCodePersistence means a turn could not be written to the log
	ErrorCodePersistence
	// ErrorCodeConfig is an unusable startup setting or bundled data file
	ErrorCodeConfig
)

var codeNames = [...]string{
	"unknown", "panic", "unavailable", "invalid_argument", "validation", "json",
	"not_found", "db", "scoring", "detection", "persistence", "config",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

var statusByCode = map[ErrorCode]int{
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeScoring:         http.StatusUnprocessableEntity,
	ErrorCodeDetection:       http.StatusUnprocessableEntity,
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
}

// HTTPStatusCode is the response status for c; unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a code, a client safe message and an optional cause
// field names the offending input; op names the component that failed and is for logs only
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause != nil:
		return e.msg + ": " + e.cause.Error()
	default:
		return e.msg
	}
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Op() string      { return e.op }

// Wire is the error body clients see; the cause never leaves the process
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom renders any error for clients; foreign errors become ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error in err, Unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// Root follows Unwrap to the innermost error
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// WithField returns a copy of err naming field; foreign errors pass through
func WithField(err error, field string) error {
	return edit(err, func(e *Error) { e.field = field })
}

// WithOp returns a copy of err tagged with op; foreign errors pass through
func WithOp(err error, op string) error {
	return edit(err, func(e *Error) { e.op = op })
}

func edit(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	fn(&c)
	return &c
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

// FromPanic turns a recovered value into a Panic error, keeping it as the cause when it is an error
func FromPanic(rec any) error {
	if err, ok := rec.(error); ok {
		return Wrap(err, ErrorCodePanic, "panic")
	}
	return Newf(ErrorCodePanic, "panic: %v", rec)
}

func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Configf(format string, a ...any) error      { return Newf(ErrorCodeConfig, format, a...) }
