// this package provide "mock" implementation of database for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/opst/skein/pkg/domain"
	kdbhistory "github.com/opst/skein/pkg/domain/history/db"
	dbmock "github.com/opst/skein/pkg/domain/internal/db/mock"
)

type HistoryInterface struct {
	Impl struct {
		Append       func(context.Context, domain.RevisionSpec) (domain.Revision, error)
		GetLatest    func(context.Context, domain.ResourceRef) (domain.Revision, error)
		GetAtVersion func(context.Context, domain.ResourceRef, int64) (domain.Revision, error)
		List         func(context.Context, domain.ResourceRef, domain.HistoryPage) ([]domain.Revision, error)
	}
	Calls struct {
		Append    dbmock.CallLog[domain.RevisionSpec]
		GetLatest dbmock.CallLog[domain.ResourceRef]
		GetAtVersion dbmock.CallLog[struct {
			Ref     domain.ResourceRef
			Version int64
		}]
		List dbmock.CallLog[struct {
			Ref  domain.ResourceRef
			Page domain.HistoryPage
		}]
	}
}

func NewHistoryInterface() *HistoryInterface {
	return &HistoryInterface{}
}

var _ kdbhistory.HistoryInterface = &HistoryInterface{}

func (hi *HistoryInterface) Append(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error) {
	hi.Calls.Append = append(hi.Calls.Append, spec)
	if hi.Impl.Append != nil {
		return hi.Impl.Append(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (hi *HistoryInterface) GetLatest(ctx context.Context, ref domain.ResourceRef) (domain.Revision, error) {
	hi.Calls.GetLatest = append(hi.Calls.GetLatest, ref)
	if hi.Impl.GetLatest != nil {
		return hi.Impl.GetLatest(ctx, ref)
	}
	panic(errors.New("it should not be called"))
}

func (hi *HistoryInterface) GetAtVersion(ctx context.Context, ref domain.ResourceRef, version int64) (domain.Revision, error) {
	hi.Calls.GetAtVersion = append(hi.Calls.GetAtVersion, struct {
		Ref     domain.ResourceRef
		Version int64
	}{
		Ref: ref, Version: version,
	})
	if hi.Impl.GetAtVersion != nil {
		return hi.Impl.GetAtVersion(ctx, ref, version)
	}
	panic(errors.New("it should not be called"))
}

func (hi *HistoryInterface) List(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error) {
	hi.Calls.List = append(hi.Calls.List, struct {
		Ref  domain.ResourceRef
		Page domain.HistoryPage
	}{
		Ref: ref, Page: page,
	})
	if hi.Impl.List != nil {
		return hi.Impl.List(ctx, ref, page)
	}
	panic(errors.New("it should not be called"))
}
