package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apierr "github.com/opst/skein/pkg/api/types/errors"
	apires "github.com/opst/skein/pkg/api/types/resources"
	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
)

// unmarshal http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be.
//
// return:
//
//	error if...
//	- status code is not in 2xx (see errorFromResponse)
//	- response body is not shaped of v (as errors.ErrTransient;
//	  a garbled payload from the server is its trouble, not the caller's)
func unmarshalJsonResponse[T any](resp *http.Response, v *T) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf(
				"%w: unexpected response: %s (status code = %d)",
				domerr.ErrTransient, err.Error(), resp.StatusCode,
			)
		}
		return nil
	}

	return errorFromResponse(resp)
}

// errorFromResponse maps an error response from skeind to an error.
//
// Domain troubles keep their identity across the wire:
//
//   - 404 unwraps to errors.ErrMissing
//   - 409 unwraps to errors.ErrConflict
//   - 5xx unwraps to errors.ErrTransient
//
// Other statuses mean the request itself was wrong, and map to a plain error.
func errorFromResponse(resp *http.Response) error {
	reason := parseErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domerr.ErrMissing, reason)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", domerr.ErrConflict, reason)
	case StatusCodeRangeOf(resp) == Status5xx:
		return fmt.Errorf(
			"%w: %s (status code = %d)",
			domerr.ErrTransient, reason, resp.StatusCode,
		)
	default:
		return fmt.Errorf("%s (status code = %d)", reason, resp.StatusCode)
	}
}

// parseErrorMessage digs the reason out of an error response body. It falls
// back to the raw body when the shape is not the one skeind sends.
func parseErrorMessage(body io.Reader) string {
	buf, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("cannot read server message: %s", err.Error())
	}

	if eresp, err := jsonUnmarshal[apierr.ErrorResponse](buf); err == nil && eresp.Message.Reason != "" {
		return eresp.Message.String()
	}

	if msg, err := jsonUnmarshal[struct {
		Message *string `json:"message"`
	}](buf); err == nil && msg.Message != nil {
		return *msg.Message
	}

	return string(buf)
}

func jsonUnmarshal[T any](buf []byte) (*T, error) {
	ret := new(T)
	if err := json.Unmarshal(buf, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// passOrTransient keeps context errors as they are and labels everything
// else transient. http.Client wraps cancellation in *url.Error, so test by
// errors.Is, not equality.
func passOrTransient(err error) error {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domerr.ErrTransient, err)
	}
}

// revisionFromDetail turns a wire revision back into the domain one.
func revisionFromDetail(detail apires.Detail) domain.Revision {
	return domain.Revision{
		ResourceRef: domain.ResourceRef{
			Namespace: detail.Namespace,
			Group:     detail.Group,
			Resource:  detail.Resource,
			Name:      detail.Name,
		},
		Guid:    detail.Guid,
		Version: detail.Version,
		Folder:  detail.Folder,
		Value:   []byte(detail.Value),
	}
}
