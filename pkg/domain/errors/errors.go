package errors

import (
	"errors"
	"fmt"
)

// ErrMissing means that a resource or a revision is not found.
var ErrMissing = errors.New("missing")

// ErrConflict means that an append lost an optimistic concurrency race,
// or based its changes on a version which is no longer the head.
var ErrConflict = errors.New("conflict")

// ErrUnknownKindVersion means that a (kind, version) pair is not registered.
var ErrUnknownKindVersion = errors.New("unknown kind version")

// ErrDecode means that a payload cannot be decoded with the selected codec.
var ErrDecode = errors.New("cannot decode")

// ErrVersionMismatch means that a resource is stored under a schema version
// other than the requested one.
var ErrVersionMismatch = errors.New("schema version mismatch")

// ErrTransient means an I/O or availability failure.
// Whether to retry is up to the caller.
var ErrTransient = errors.New("transient failure")

// VersionMismatchError reports which schema version a resource is actually
// stored under. Match it with errors.As to pick up the actual version,
// or with errors.Is(err, ErrVersionMismatch).
type VersionMismatchError struct {
	// Requested is the schema version label asked for.
	Requested string

	// Actual is the schema version label the resource is stored under.
	Actual string
}

var _ error = (*VersionMismatchError)(nil)

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf(
		"schema version mismatch: requested %s, but stored as %s",
		e.Requested, e.Actual,
	)
}

func (e *VersionMismatchError) Unwrap() error {
	return ErrVersionMismatch
}

// NewVersionMismatch creates a VersionMismatchError.
func NewVersionMismatch(requested, actual string) *VersionMismatchError {
	return &VersionMismatchError{Requested: requested, Actual: actual}
}

// Conflict describes why an append is rejected, pointing at the current head.
type Conflict struct {
	// Expected is the version the writer declared as its base.
	Expected int64

	// Head is the version actually at the head of the history.
	// Zero when the resource does not exist.
	Head int64
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	if c.Head == 0 {
		return fmt.Sprintf("conflict: expected version %d, but the resource does not exist", c.Expected)
	}
	return fmt.Sprintf("conflict: expected version %d, but head is %d", c.Expected, c.Head)
}

func (c Conflict) Unwrap() error {
	return ErrConflict
}
