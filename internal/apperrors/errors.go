package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can map it to an HTTP status
// without sniffing error strings or struct shapes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindExpired
	KindRateLimited
	KindTransient
)

type Error struct {
	Kind   Kind
	Title  string
	Detail string
	Err    error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two *Error values by kind, so services can
// expose sentinel values (ErrNotFound etc.) while still carrying detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, title, detail string) *Error {
	return &Error{Kind: kind, Title: title, Detail: detail}
}

func Wrap(kind Kind, title string, err error) *Error {
	return &Error{Kind: kind, Title: title, Err: err}
}

// Sentinels for the common domain outcomes. Compare with errors.Is.
var (
	ErrNotFound     = New(KindNotFound, "not found", "")
	ErrExpired      = New(KindExpired, "expired", "")
	ErrUnauthorized = New(KindUnauthorized, "unauthorized", "")
	ErrRateLimited  = New(KindRateLimited, "rate limited", "")
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExpired:
		return http.StatusGone
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not-found"
	case KindConflict:
		return "conflict"
	case KindExpired:
		return "expired"
	case KindRateLimited:
		return "rate-limited"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

// KindOf extracts the kind from any error in the chain; unclassified
// errors are internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
