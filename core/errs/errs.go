package errs

import (
	"context"
	"errors"
)

var (
	// ErrConnection is returned when an endpoint is unreachable or rejects the credentials.
	ErrConnection = errors.New("connection error")
	// ErrTimeout is returned when an endpoint operation exceeds its deadline.
	// It wraps ErrConnection so timeouts are treated as connection failures.
	ErrTimeout = &timeoutError{}
	// ErrSchema is returned when a table or column does not exist.
	ErrSchema = errors.New("schema error")
	// ErrEmptyMapping is returned when no key column pair could be resolved.
	ErrEmptyMapping = errors.New("empty key mapping")
	// ErrTypeCoercion marks a raw engine value that could not be normalized.
	ErrTypeCoercion = errors.New("type coercion error")
	// ErrResourceLimit is returned when a cursor would exceed the materialization ceiling
	// or an engine cannot produce rows in key order.
	ErrResourceLimit = errors.New("resource limit exceeded")
	// ErrDispatch is returned by a sink that refused a forwarded record.
	ErrDispatch = errors.New("dispatch error")
	// ErrCancelled is returned when a run is cancelled by the caller.
	ErrCancelled = errors.New("comparison cancelled")
	// ErrNotFound is returned when a run or connection id is unknown.
	ErrNotFound = errors.New("not found")
)

type timeoutError struct{}

func (e *timeoutError) Error() string { return "connection timeout" }

func (e *timeoutError) Unwrap() error { return ErrConnection }

// Kind strings persisted on failed runs.
const (
	KindConnection    = "connection_error"
	KindTimeout       = "timeout"
	KindSchema        = "schema_error"
	KindEmptyMapping  = "empty_mapping"
	KindTypeCoercion  = "type_coercion"
	KindResourceLimit = "resource_limit_exceeded"
	KindDispatch      = "dispatch_error"
	KindCancelled     = "cancelled"
	KindNotFound      = "not_found"
	KindInternal      = "internal"
)

// KindOf returns the taxonomy kind of err. A bare context deadline is reported as a
// timeout and a bare context cancellation as a cancellation.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrConnection):
		return KindConnection
	case errors.Is(err, ErrSchema):
		return KindSchema
	case errors.Is(err, ErrEmptyMapping):
		return KindEmptyMapping
	case errors.Is(err, ErrResourceLimit):
		return KindResourceLimit
	case errors.Is(err, ErrTypeCoercion):
		return KindTypeCoercion
	case errors.Is(err, ErrDispatch):
		return KindDispatch
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindInternal
	}
}

// IsFatal reports whether err must abort a comparison run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindTypeCoercion, KindDispatch:
		return false
	default:
		return true
	}
}
