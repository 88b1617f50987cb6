// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Every failure a caller can see carries a Kind (which fixes the status
// code) and a human-readable detail.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindServiceError Kind = iota
	KindInvalidInput
	KindConflict
	KindUnauthorized
	KindNotFound
	KindRateLimited
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	default:
		return "service_error"
	}
}

// Status maps the kind onto an HTTP status code. Conflict is reported as 400
// to match the registration contract.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Detail + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func InvalidInput(detail string) *Error { return New(KindInvalidInput, detail) }
func Unauthorized(detail string) *Error { return New(KindUnauthorized, detail) }
func NotFound(detail string) *Error     { return New(KindNotFound, detail) }

// KindOf returns the kind of the first *Error in err's chain, or
// KindServiceError when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServiceError
}

// StatusOf is KindOf(err).Status().
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// DetailOf returns the caller-facing message for err. Errors outside the
// taxonomy never leak their text.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return "Internal server error"
}
