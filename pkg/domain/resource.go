package domain

import (
	"bytes"
	"fmt"

	"github.com/opst/skein/pkg/utils/cmp"
)

// ResourceRef identifies a resource, apart from its revisions.
//
// Cluster-scoped resources leave Namespace empty.
type ResourceRef struct {
	Namespace string
	Group     string

	// Resource is the plural resource name of the kind, like "sheets".
	Resource string
	Name     string
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", r.Namespace, r.Group, r.Resource, r.Name)
}

func (r ResourceRef) Equal(o ResourceRef) bool {
	return r == o
}

// Revision is a single immutable record in the history of a resource.
//
// Revisions are only ever appended. Fixing a resource means writing a new
// Revision with a higher Version, never touching the old ones.
type Revision struct {
	ResourceRef

	// Guid identifies this record itself, not the resource.
	Guid string

	// Version counts up from 1 per resource, without gaps.
	Version int64

	// Folder groups resources for display. nil means not filed.
	Folder *string

	// Value is the payload as written, carrying the schema version
	// it was encoded with (see kind.PeekAPIVersion).
	Value []byte
}

func (r *Revision) Equal(o *Revision) bool {
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return r.Guid == o.Guid &&
		r.Version == o.Version &&
		r.ResourceRef.Equal(o.ResourceRef) &&
		cmp.PEqEq(r.Folder, o.Folder) &&
		bytes.Equal(r.Value, o.Value)
}

// RevisionSpec declares a revision to be appended.
type RevisionSpec struct {
	ResourceRef

	Folder *string
	Value  []byte

	// PreviousVersion is the version this spec based its changes on.
	// Zero declares that the resource does not exist yet.
	PreviousVersion int64
}

// HistoryPage selects a page from a revision history, read newest first.
type HistoryPage struct {
	// Limit caps the number of revisions. Non-positive means unlimited.
	Limit int

	// Before excludes revisions at or above this version. Zero means from the head.
	Before int64
}
