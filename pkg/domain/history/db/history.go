package db

import (
	"context"

	"github.com/opst/skein/pkg/domain"
)

type HistoryInterface interface {
	// Append records a new revision of a resource.
	//
	// The new revision gets the version next to the current head, starting
	// at 1 for a resource with no history. Records are immutable once
	// written. Append never updates nor deletes.
	//
	// Args
	//
	// - context.Context
	//
	// - domain.RevisionSpec: content of the new revision.
	// Set PreviousVersion to the version this write is based on,
	// or 0 when creating a resource.
	//
	// Return
	//
	// - domain.Revision: the stored revision, with its guid and version.
	//
	// - error: errors.ErrConflict when PreviousVersion differs from the
	// current head version (also when PreviousVersion > 0 and the resource
	// has no history at all).
	Append(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error)

	// GetLatest returns the newest revision of a resource.
	//
	// Return
	//
	// - domain.Revision
	//
	// - error: errors.ErrMissing when the resource has no history.
	GetLatest(ctx context.Context, ref domain.ResourceRef) (domain.Revision, error)

	// GetAtVersion returns the revision of a resource at an exact version.
	//
	// The returned value is the byte sequence recorded by Append,
	// whatever has been appended since.
	//
	// Return
	//
	// - domain.Revision
	//
	// - error: errors.ErrMissing when the resource has no revision at
	// that version.
	GetAtVersion(ctx context.Context, ref domain.ResourceRef, version int64) (domain.Revision, error)

	// List returns revisions of a resource, newest first.
	//
	// Args
	//
	// - domain.HistoryPage: page of the history to be listed.
	// Zero value means the whole history.
	//
	// Return
	//
	// - []domain.Revision: revisions in descending version order.
	// Empty when the resource has no history.
	//
	// - error
	List(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error)
}
