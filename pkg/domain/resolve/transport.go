package resolve

import (
	"context"

	"github.com/opst/skein/pkg/domain"
)

// Fetcher reads the current stored revision of a resource.
type Fetcher interface {
	// FetchResource reads the newest revision of ref, requested at the
	// schema version in params.
	//
	// Args
	//
	// - ctx
	//
	// - ref: resource identity.
	//
	// - params: load parameters. params.Version is the requested schema
	// version label, empty for the storage version.
	//
	// Return
	//
	// - domain.Revision: the stored revision. Its payload is of the
	// requested schema version.
	//
	// - error: *errors.VersionMismatchError when the stored payload is of
	// another schema version than requested (it carries the stored label);
	// errors.ErrMissing when the resource does not exist;
	// errors.ErrUnknownKindVersion when the requested version is not
	// registered; errors.ErrTransient on I/O trouble; ctx.Err() when
	// cancelled.
	FetchResource(ctx context.Context, ref domain.ResourceRef, params Params) (domain.Revision, error)
}

// Appender writes a new revision of a resource.
type Appender interface {
	// AppendRevision appends the revision declared by spec.
	//
	// Return
	//
	// - domain.Revision: the appended revision.
	//
	// - error: errors.ErrConflict when spec.PreviousVersion is not the
	// current head of the resource; errors.ErrTransient on I/O trouble.
	AppendRevision(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error)
}

// Transport is the wire boundary of a Manager. The in-process form is
// NewStoreTransport; pkg/client/rest provides the HTTP form.
type Transport interface {
	Fetcher
	Appender
}
