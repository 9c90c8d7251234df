// Package apperr defines the typed errors domain code returns.
// httpkit.HandleError turns them into status codes at the edge; anything
// untyped is reported as a generic 500.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound also covers rows the caller does not own.
	KindNotFound
	KindValidation
	KindConflict
	// KindForbidden is for actions the current state does not allow, such as
	// qualifying a lead on a draft funnel.
	KindForbidden
	KindUnauthorized
	KindBadRequest
	// KindInternal marks persistence or upstream failures. Its cause is logged
	// and never shown to the caller.
	KindInternal
)

var statusByKind = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindValidation:   http.StatusBadRequest,
	KindBadRequest:   http.StatusBadRequest,
	KindConflict:     http.StatusConflict,
	KindForbidden:    http.StatusForbidden,
	KindUnauthorized: http.StatusUnauthorized,
}

// Error is returned by services and repositories. Message is safe to show
// to the caller; Err is not.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
	Details any
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	parts = append(parts, e.Message)
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus is 500 for KindInternal and KindUnknown.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithOp records the failing operation, e.g. "search.GlobalSearch".
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches a payload rendered under "details" in the response.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Validation(message string) *Error   { return New(KindValidation, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func BadRequest(message string) *Error   { return New(KindBadRequest, message) }

// Internal wraps a persistence or upstream failure behind message.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// GetKind returns the Kind of the first *Error in err's chain, or
// KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
