package domain

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Repository sentinels. Every store provider translates its driver errors into these.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// Kinds shared by every module. Module specific kinds live next to their entities.
var (
	ErrInvalidInput        = newError("INVALID_INPUT", http.StatusBadRequest, "The request was malformed or contained invalid parameters")
	ErrNotFound            = newError("NOT_FOUND", http.StatusNotFound, "The requested resource could not be found")
	ErrUnauthorized        = newError("UNAUTHORIZED", http.StatusUnauthorized, "Authentication required")
	ErrForbidden           = newError("FORBIDDEN", http.StatusForbidden, "The requested action was forbidden")
	ErrConfiguration       = newError("CONFIGURATION_ERROR", http.StatusInternalServerError, "The server is not configured to handle this request")
	ErrInternalServerError = newError("INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "An internal server error occurred")
)

// DetailedError is an error kind of the public taxonomy. Catalog values are
// never mutated: every With* method returns a decorated copy.
type DetailedError struct {
	IDField         string `json:"id,omitempty"`
	StatusCodeField int    `json:"code,omitempty"`
	ErrorField      string `json:"message"`

	// ReasonField explains a single occurrence, e.g. which permission was missing.
	ReasonField string `json:"reason,omitempty"`

	err error
}

func newError(id string, status int, message string) *DetailedError {
	return &DetailedError{IDField: id, StatusCodeField: status, ErrorField: message}
}

func (e DetailedError) Error() string {
	return e.ErrorField
}

func (e DetailedError) ID() string {
	return e.IDField
}

func (e DetailedError) StatusCode() int {
	return e.StatusCodeField
}

func (e DetailedError) Reason() string {
	return e.ReasonField
}

func (e DetailedError) Unwrap() error {
	return e.err
}

// Is matches any decoration of the same kind.
func (e DetailedError) Is(target error) bool {
	switch t := target.(type) {
	case DetailedError:
		return e.IDField == t.IDField && e.StatusCodeField == t.StatusCodeField
	case *DetailedError:
		return t != nil && e.IDField == t.IDField && e.StatusCodeField == t.StatusCodeField
	default:
		return false
	}
}

// WithWrap records the cause with a stack trace. The cause is logged, never returned to clients.
func (e DetailedError) WithWrap(err error) *DetailedError {
	e.err = errors.WithStack(err)
	return &e
}

func (e DetailedError) WithError(message string) *DetailedError {
	e.ErrorField = message
	return &e
}

func (e DetailedError) WithReason(reason string) *DetailedError {
	e.ReasonField = reason
	return &e
}

func (e DetailedError) WithReasonf(reason string, args ...interface{}) *DetailedError {
	return e.WithReason(fmt.Sprintf(reason, args...))
}
