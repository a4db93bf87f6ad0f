package protocol

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind is a machine-readable error class.
type Kind string

const (
	KindBadRequest     Kind = "bad-request"
	KindBadResponse    Kind = "bad-response"
	KindTransport      Kind = "transport-failure"
	KindUnknown        Kind = "unknown"
	KindNotImplemented Kind = "not-implemented"
)

const (
	CodeBadRequest     = http.StatusBadRequest
	CodeUnknown        = http.StatusInternalServerError
	CodeNotImplemented = http.StatusNotImplemented
	CodeBadGateway     = http.StatusBadGateway
)

// Error holds an error code, kind, message and the error that caused it
type Error struct {
	Code     int
	Kind     Kind
	Message  string
	Internal error
}

func NewError(code int, kind Kind, message string) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

func BadRequest(format string, args ...interface{}) *Error {
	return NewError(CodeBadRequest, KindBadRequest, fmt.Sprintf(format, args...))
}

func BadResponse(format string, args ...interface{}) *Error {
	return NewError(CodeBadGateway, KindBadResponse, fmt.Sprintf(format, args...))
}

func NotImplemented(format string, args ...interface{}) *Error {
	return NewError(CodeNotImplemented, KindNotImplemented, fmt.Sprintf(format, args...))
}

// Transport maps a non-2xx response, keeping its status code.
func Transport(code int, message string) *Error {
	if message == "" {
		message = http.StatusText(code)
	}
	return NewError(code, KindTransport, message)
}

// Unknown maps a failure that carries no status code of its own.
func Unknown(err error) *Error {
	msg := http.StatusText(CodeUnknown)
	if err != nil {
		msg = err.Error()
	}
	return NewError(CodeUnknown, KindUnknown, msg).SetInternal(err)
}

// FromError returns err itself when it already is (or wraps) an *Error,
// otherwise it is mapped to an unknown failure.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if perr, ok := errors.Cause(err).(*Error); ok {
		return perr
	}
	return Unknown(err)
}

func (e *Error) SetInternal(err error) *Error {
	e.Internal = err
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

func IsKind(err error, kind Kind) bool {
	perr, ok := errors.Cause(err).(*Error)
	return ok && perr.Kind == kind
}

func IsBadRequest(err error) bool { return IsKind(err, KindBadRequest) }

func IsBadResponse(err error) bool { return IsKind(err, KindBadResponse) }

func IsTransport(err error) bool { return IsKind(err, KindTransport) }

func IsUnknown(err error) bool { return IsKind(err, KindUnknown) }

func IsNotImplemented(err error) bool { return IsKind(err, KindNotImplemented) }
