// Package errors is the coded error type every layer returns; import it as perr.
// The code picks the HTTP status, the message is safe for clients and the
// wrapped cause and stack stay in the logs.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// ErrorCode is sent to clients as a number; only ever append
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic             // recovered by middleware
	ErrorCodeUnavailable       // catalog or store cannot answer right now
	ErrorCodeInvalidArgument   // well formed but unservable, e.g. an inverted range
	ErrorCodeValidation        // body failed struct validation
	ErrorCodeJSON              // body is not the expected JSON
	ErrorCodeNotFound          // unknown project or row
	ErrorCodeDB                // database failure with no better mapping
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
}

// Status maps c to an http status; unmapped codes are 500
func (c ErrorCode) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Error carries a code, a client safe message, the offending field and the failing op
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
	stack stackTracer
}

func newError(code ErrorCode, cause error, msg string) *Error {
	return &Error{code: code, msg: msg, cause: cause, stack: pkgerrors.New(msg).(stackTracer)}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Op() string      { return e.op }

// StackTrace is where the error was created; zerolog's pkgerrors marshaler reads it
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e == nil || e.stack == nil {
		return nil
	}
	return e.stack.StackTrace()
}

func New(code ErrorCode, msg string) error { return newError(code, nil, msg) }

func Newf(code ErrorCode, format string, a ...any) error {
	return newError(code, nil, fmt.Sprintf(format, a...))
}

// Wrap codes cause; msg goes to clients, cause only to logs
func Wrap(cause error, code ErrorCode, msg string) error { return newError(code, cause, msg) }

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return newError(code, cause, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

func HTTPStatus(err error) int { return CodeOf(err).Status() }

// annotate returns a copy of the outermost *Error with fn applied; foreign errors come back as is
func annotate(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	fn(&cp)
	return &cp
}

// WithField names the input at fault
func WithField(err error, field string) error {
	return annotate(err, func(e *Error) { e.field = field })
}

// WithOp labels the operation that failed
func WithOp(err error, op string) error {
	return annotate(err, func(e *Error) { e.op = op })
}

// Wire is what a client may see of an error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom drops the cause; foreign errors keep their text under ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}
