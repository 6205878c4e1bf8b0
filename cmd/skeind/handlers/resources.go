package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	bindres "github.com/opst/skein/pkg/api-types-binding/resources"
	apierr "github.com/opst/skein/pkg/api/types/errors"
	apires "github.com/opst/skein/pkg/api/types/resources"
	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
	kdb "github.com/opst/skein/pkg/domain/history/db"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/utils/slices"
)

// GetResourceHandler serves the newest revision of a resource, or,
// when the query parameter "version" is given, the revision at that
// exact version.
//
// The stored envelope is returned byte for byte. No schema conversion
// happens on read.
func GetResourceHandler(dbHistory kdb.HistoryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ref := refFromPath(c)

		var rev domain.Revision
		var err error
		if raw := c.QueryParam("version"); raw != "" {
			version, perr := strconv.ParseInt(raw, 10, 64)
			if perr != nil || version < 1 {
				return apierr.BadRequest("version should be a positive integer", perr)
			}
			rev, err = dbHistory.GetAtVersion(ctx, ref, version)
		} else {
			rev, err = dbHistory.GetLatest(ctx, ref)
		}

		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, bindres.ComposeDetail(rev))
	}
}

// PutResourceHandler appends a new revision of a resource.
//
// The request body declares the version this write is based on.
// When it does not match the current head, the write is refused with
// 409 and nothing is recorded.
func PutResourceHandler(dbHistory kdb.HistoryInterface, registry *kind.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ref := refFromPath(c)

		spec := apires.WriteSpec{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&spec); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}

		if spec.PreviousVersion < 0 {
			return apierr.BadRequest("previousVersion should not be negative", nil)
		}
		if len(spec.Value) == 0 {
			return apierr.BadRequest("value is required", nil)
		}
		if err := validateEnvelope(registry, ref, spec.Value); err != nil {
			return err
		}

		stored, err := dbHistory.Append(ctx, domain.RevisionSpec{
			ResourceRef:     ref,
			Folder:          spec.Folder,
			Value:           spec.Value,
			PreviousVersion: spec.PreviousVersion,
		})
		if err != nil {
			conflict := domerr.Conflict{}
			if errors.As(err, &conflict) {
				return apierr.Conflict(
					"version conflict",
					apierr.WithAdvice(fmt.Sprintf(
						"the write is based on version %d but the head is %d. fetch the latest revision and retry",
						conflict.Expected, conflict.Head,
					)),
					apierr.WithError(err),
				)
			}
			if errors.Is(err, domerr.ErrConflict) {
				return apierr.Conflict("version conflict", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, bindres.ComposeDetail(stored))
	}
}

// ResourceHistoryHandler lists revisions of a resource, newest first.
//
// Query parameters "limit" and "before" page through the history.
// A resource with no history yields an empty list, not 404.
func ResourceHistoryHandler(dbHistory kdb.HistoryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		ref := refFromPath(c)

		page := domain.HistoryPage{}
		if raw := c.QueryParam("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				return apierr.BadRequest("limit should be a positive integer", err)
			}
			page.Limit = limit
		}
		if raw := c.QueryParam("before"); raw != "" {
			before, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || before < 1 {
				return apierr.BadRequest("before should be a positive integer", err)
			}
			page.Before = before
		}

		revisions, err := dbHistory.List(ctx, ref, page)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(revisions, bindres.ComposeDetail))
	}
}

func refFromPath(c echo.Context) domain.ResourceRef {
	namespace := c.Param("namespace")
	if namespace == "-" {
		// cluster-scoped resources have no namespace, but URLs need the segment
		namespace = ""
	}
	return domain.ResourceRef{
		Namespace: namespace,
		Group:     c.Param("group"),
		Resource:  c.Param("resource"),
		Name:      c.Param("name"),
	}
}

// validateEnvelope checks that the value is an envelope of a schema
// version this server can accept for the resource in the path.
func validateEnvelope(registry *kind.Registry, ref domain.ResourceRef, value []byte) error {
	apiVersion, err := kind.PeekAPIVersion(value)
	if err != nil {
		return apierr.BadRequest("value should be a JSON object with apiVersion", err)
	}
	group, label, err := kind.ParseAPIVersion(apiVersion)
	if err != nil {
		return apierr.BadRequest("apiVersion should be formatted as GROUP/VERSION", err)
	}
	if group != ref.Group {
		return apierr.BadRequest(fmt.Sprintf(
			"apiVersion group %s does not match the group %s in the path", group, ref.Group,
		), nil)
	}

	k, err := registry.KindFor(ref.Group, ref.Resource)
	if err != nil {
		return apierr.BadRequest(fmt.Sprintf(
			"no kind is registered for resource %s in group %s", ref.Resource, ref.Group,
		), err)
	}
	v, err := registry.Resolve(ref.Group, k.Name, label)
	if err != nil {
		return apierr.BadRequest(fmt.Sprintf(
			"schema version %s of kind %s is not registered", label, k.Name,
		), err)
	}
	if !v.Served {
		return apierr.BadRequest(fmt.Sprintf(
			"schema version %s of kind %s is not served", label, k.Name,
		), nil)
	}
	if _, err := v.Codec.Decode(value); err != nil {
		return apierr.BadRequest("value can not be decoded as its declared schema version", err)
	}

	return nil
}
