package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	apires "github.com/opst/skein/pkg/api/types/resources"
	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/domain/resolve"
	"github.com/opst/skein/pkg/utils/slices"
)

func (c *client) FetchResource(ctx context.Context, ref domain.ResourceRef, params resolve.Params) (domain.Revision, error) {
	// resolve the requested schema version before going to the wire, so
	// that an unknown version costs no round trip.
	k, err := c.registry.KindFor(ref.Group, ref.Resource)
	if err != nil {
		return domain.Revision{}, err
	}
	requested, err := c.registry.Resolve(ref.Group, k.Name, params.Version)
	if err != nil {
		return domain.Revision{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resourcepath(ref), nil)
	if err != nil {
		return domain.Revision{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return domain.Revision{}, passOrTransient(err)
	}
	defer resp.Body.Close()

	var detail apires.Detail
	if err := unmarshalJsonResponse(resp, &detail); err != nil {
		return domain.Revision{}, err
	}
	rev := revisionFromDetail(detail)

	// the server serves whatever is stored. Version mismatches are the
	// client's to detect, like the in-process transport does.
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

func (c *client) AppendRevision(ctx context.Context, spec domain.RevisionSpec) (domain.Revision, error) {
	b, err := json.Marshal(apires.WriteSpec{
		Folder:          spec.Folder,
		PreviousVersion: spec.PreviousVersion,
		Value:           json.RawMessage(spec.Value),
	})
	if err != nil {
		return domain.Revision{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPut, c.resourcepath(spec.ResourceRef), bytes.NewBuffer(b),
	)
	if err != nil {
		return domain.Revision{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return domain.Revision{}, passOrTransient(err)
	}
	defer resp.Body.Close()

	var detail apires.Detail
	if err := unmarshalJsonResponse(resp, &detail); err != nil {
		return domain.Revision{}, err
	}
	return revisionFromDetail(detail), nil
}

func (c *client) ListHistory(ctx context.Context, ref domain.ResourceRef, page domain.HistoryPage) ([]domain.Revision, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.resourcepath(ref)+"/history", nil,
	)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	if 0 < page.Limit {
		q.Add("limit", strconv.Itoa(page.Limit))
	}
	if 0 < page.Before {
		q.Add("before", strconv.FormatInt(page.Before, 10))
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, passOrTransient(err)
	}
	defer resp.Body.Close()

	details := make([]apires.Detail, 0, 5)
	if err := unmarshalJsonResponse(resp, &details); err != nil {
		return nil, err
	}

	return slices.Map(details, revisionFromDetail), nil
}
