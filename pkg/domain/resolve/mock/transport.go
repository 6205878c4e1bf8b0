// this package provide "mock" implementation of the resolve transport for
// testing.
package mocks

import (
	"context"
	"errors"

	"github.com/opst/skein/pkg/domain"
	dbmock "github.com/opst/skein/pkg/domain/internal/db/mock"
	"github.com/opst/skein/pkg/domain/resolve"
)

type Transport struct {
	Impl struct {
		FetchResource  func(context.Context, domain.ResourceRef, resolve.Params) (domain.Revision, error)
		AppendRevision func(context.Context, domain.RevisionSpec) (domain.Revision, error)
	}
	Calls struct {
		FetchResource dbmock.CallLog[struct {
			Ref    domain.ResourceRef
			Params resolve.Params
		}]
		AppendRevision dbmock.CallLog[domain.RevisionSpec]
	}
}

func NewTransport() *Transport {
	return &Transport{}
}

var _ resolve.Transport = &Transport{}

func (t *Transport) FetchResource(ctx context.Context, ref domain.ResourceRef, params resolve.Params) (domain.Revision, error) {
	t.Calls.FetchResource = append(t.Calls.FetchResource, struct {
		Ref    domain.ResourceRef
		Params resolve.Params
	}{
		Ref: ref, Params: params,
	})
	if t.Impl.FetchResource != nil {
		return t.Impl.FetchResource(ctx, ref, params)
	}
	panic(errors.New("it should not be called"))
}

func (t *Transport) AppendRevision(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error) {
	t.Calls.AppendRevision = append(t.Calls.AppendRevision, spec)
	if t.Impl.AppendRevision != nil {
		return t.Impl.AppendRevision(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}
