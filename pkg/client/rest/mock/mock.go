package mock

import (
	"context"
	"testing"

	"github.com/opst/skein/pkg/client/rest"
	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/domain/resolve"
)

type FetchResourceArgs struct {
	Ref    domain.ResourceRef
	Params resolve.Params
}

type ListHistoryArgs struct {
	Ref  domain.ResourceRef
	Page domain.HistoryPage
}

func New(t *testing.T) *mockSkeinClient {
	return &mockSkeinClient{t: t}
}

type mockSkeinClient struct {
	t    *testing.T
	Impl struct {
		FetchResource  func(ctx context.Context, ref domain.ResourceRef, params resolve.Params) (domain.Revision, error)
		AppendRevision func(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error)
		ListHistory    func(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error)
	}
	Calls struct {
		FetchResource  []FetchResourceArgs
		AppendRevision []domain.RevisionSpec
		ListHistory    []ListHistoryArgs
	}
}

var _ rest.SkeinClient = &mockSkeinClient{}

func (m *mockSkeinClient) FetchResource(ctx context.Context, ref domain.ResourceRef, params resolve.Params) (domain.Revision, error) {
	m.t.Helper()

	m.Calls.FetchResource = append(m.Calls.FetchResource, FetchResourceArgs{Ref: ref, Params: params})
	if m.Impl.FetchResource == nil {
		m.t.Fatal("FetchResource is not ready to be called")
	}
	return m.Impl.FetchResource(ctx, ref, params)
}

func (m *mockSkeinClient) AppendRevision(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error) {
	m.t.Helper()

	m.Calls.AppendRevision = append(m.Calls.AppendRevision, spec)
	if m.Impl.AppendRevision == nil {
		m.t.Fatal("AppendRevision is not ready to be called")
	}
	return m.Impl.AppendRevision(ctx, spec)
}

func (m *mockSkeinClient) ListHistory(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error) {
	m.t.Helper()

	m.Calls.ListHistory = append(m.Calls.ListHistory, ListHistoryArgs{Ref: ref, Page: page})
	if m.Impl.ListHistory == nil {
		m.t.Fatal("ListHistory is not ready to be called")
	}
	return m.Impl.ListHistory(ctx, ref, page)
}
