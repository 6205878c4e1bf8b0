package resolve

import (
	"errors"
	"fmt"
	"net/http"

	domerr "github.com/opst/skein/pkg/domain/errors"
)

// Message identifiers carried by LoadError. Stable across releases, so that
// presentation layers can key translations and retry policies on them.
const (
	MessageNotFound       = "resolve.not-found"
	MessageUnknownVersion = "resolve.unknown-version"
	MessageDecodeFailure  = "resolve.decode-failure"
	MessageMismatchChain  = "resolve.version-mismatch"
	MessageTransient      = "resolve.transient"
	MessageInternal       = "resolve.internal"
)

// LoadError is the failure shape a fetch surfaces to presentation layers.
//
// Cancellations never become LoadErrors. A fetch cancelled by its context
// returns the context's error as is.
type LoadError struct {
	// Status is an HTTP status code classifying the failure.
	Status int

	// MessageID identifies the failure class. See the Message constants.
	MessageID string

	// Message is human-readable.
	Message string

	cause error
}

var _ error = (*LoadError)(nil)

func (e *LoadError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s (%d; %s)", e.Message, e.Status, e.MessageID)
	}
	return fmt.Sprintf("%s (%d; %s): %v", e.Message, e.Status, e.MessageID, e.cause)
}

func (e *LoadError) Unwrap() error {
	return e.cause
}

func loadErrorFor(cause error) *LoadError {
	switch {
	case errors.Is(cause, domerr.ErrMissing):
		return &LoadError{
			Status:    http.StatusNotFound,
			MessageID: MessageNotFound,
			Message:   "resource not found",
			cause:     cause,
		}
	case errors.Is(cause, domerr.ErrVersionMismatch):
		return &LoadError{
			Status:    http.StatusInternalServerError,
			MessageID: MessageMismatchChain,
			Message:   "stored schema version cannot be settled",
			cause:     cause,
		}
	case errors.Is(cause, domerr.ErrUnknownKindVersion):
		return &LoadError{
			Status:    http.StatusBadRequest,
			MessageID: MessageUnknownVersion,
			Message:   "schema version is not registered",
			cause:     cause,
		}
	case errors.Is(cause, domerr.ErrDecode):
		return &LoadError{
			Status:    http.StatusInternalServerError,
			MessageID: MessageDecodeFailure,
			Message:   "stored payload cannot be decoded",
			cause:     cause,
		}
	case errors.Is(cause, domerr.ErrTransient):
		return &LoadError{
			Status:    http.StatusServiceUnavailable,
			MessageID: MessageTransient,
			Message:   "backend is not reachable",
			cause:     cause,
		}
	default:
		return &LoadError{
			Status:    http.StatusInternalServerError,
			MessageID: MessageInternal,
			Message:   "load failed",
			cause:     cause,
		}
	}
}
