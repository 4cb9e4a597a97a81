package storage

import (
	"context"
	"errors"
)

// FailureKind names the class of a store failure for warnings and logs.
type FailureKind string

const (
	FailureTimeout          FailureKind = "timeout"
	FailurePermissionDenied FailureKind = "permission_denied"
	FailureUnauthenticated  FailureKind = "unauthenticated"
	FailureNotFound         FailureKind = "not_found"
	FailureTransport        FailureKind = "transport"

	// FailureCanceled means the caller went away; the store itself did not fail.
	FailureCanceled FailureKind = "canceled"
)

// Classify maps err onto a FailureKind. Anything unrecognised is a transport failure.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, ErrPermissionDenied):
		return FailurePermissionDenied
	case errors.Is(err, ErrUnauthenticated):
		return FailureUnauthenticated
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	default:
		return FailureTransport
	}
}
