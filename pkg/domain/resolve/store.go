package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
	khistory "github.com/opst/skein/pkg/domain/history/db"
	"github.com/opst/skein/pkg/domain/kind"
)

// storeTransport reads and writes through the history store in-process.
type storeTransport struct {
	registry *kind.Registry
	history  khistory.HistoryInterface
}

// NewStoreTransport adapts the history store into a Transport.
//
// Version mismatches are detected here, by peeking the apiVersion envelope
// of the stored payload against the requested schema version.
func NewStoreTransport(registry *kind.Registry, history khistory.HistoryInterface) Transport {
	return storeTransport{registry: registry, history: history}
}

func (t storeTransport) FetchResource(ctx context.Context, ref domain.ResourceRef, params Params) (domain.Revision, error) {
	rev, err := t.history.GetLatest(ctx, ref)
	if err != nil {
		return domain.Revision{}, passOrTransient(err)
	}

	k, err := t.registry.KindFor(ref.Group, ref.Resource)
	if err != nil {
		return domain.Revision{}, err
	}
	requested, err := t.registry.Resolve(ref.Group, k.Name, params.Version)
	if err != nil {
		return domain.Revision{}, err
	}

	apiVersion, err := kind.PeekAPIVersion(rev.Value)
	if err != nil {
		return domain.Revision{}, err
	}
	_, actual, err := kind.ParseAPIVersion(apiVersion)
	if err != nil {
		return domain.Revision{}, err
	}
	if actual != requested.Version {
		return domain.Revision{}, domerr.NewVersionMismatch(requested.Version, actual)
	}
	return rev, nil
}

func (t storeTransport) AppendRevision(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error) {
	rev, err := t.history.Append(ctx, spec)
	if err != nil {
		return domain.Revision{}, passOrTransient(err)
	}
	return rev, nil
}

// passOrTransient keeps domain and context errors as they are and labels
// everything else transient.
func passOrTransient(err error) error {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, domerr.ErrMissing),
		errors.Is(err, domerr.ErrConflict):
		return err
	default:
		return fmt.Errorf("%w: %w", domerr.ErrTransient, err)
	}
}
