package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apires "github.com/opst/skein/pkg/api/types/resources"
	krst "github.com/opst/skein/pkg/client/rest"
	"github.com/opst/skein/pkg/domain"
	domerr "github.com/opst/skein/pkg/domain/errors"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/domain/resolve"
	"github.com/opst/skein/pkg/utils/cmp"
	"github.com/opst/skein/pkg/utils/pointer"
	"github.com/opst/skein/pkg/utils/try"
)

var sheetRef = domain.ResourceRef{
	Namespace: "ns-1",
	Group:     "sheets.skein.dev",
	Resource:  "sheets",
	Name:      "overview",
}

func testRegistry(t *testing.T) *kind.Registry {
	t.Helper()
	return try.To(kind.New(
		kind.Kind{
			Name:     "Sheet",
			Group:    "sheets.skein.dev",
			Resource: "sheets",
			Scope:    kind.ScopeNamespaced,
			Storage:  "v2",
			Versions: []kind.Version{
				{Version: "v2", Served: true, Codec: kind.RawCodec("sheets.skein.dev", "v2")},
				{Version: "v1", Served: true, Codec: kind.RawCodec("sheets.skein.dev", "v1")},
			},
		},
		kind.Kind{
			Name:     "Panel",
			Group:    "skein.dev",
			Resource: "panels",
			Scope:    kind.ScopeCluster,
			Versions: []kind.Version{
				{Version: "v1", Served: true, Codec: kind.RawCodec("skein.dev", "v1")},
			},
		},
	)).OrFatal(t)
}

func sheetPayload(label string, title string) []byte {
	return []byte(fmt.Sprintf(
		`{"apiVersion":"sheets.skein.dev/%s","title":%q}`, label, title,
	))
}

func errorBody(t *testing.T, reason string) []byte {
	t.Helper()
	return try.To(json.Marshal(map[string]map[string]string{
		"message": {"reason": reason},
	})).OrFatal(t)
}

func TestFetchResource(t *testing.T) {
	t.Run("when server returns the stored revision, it returns that as is", func(t *testing.T) {
		stored := apires.Detail{
			Guid:      "8fbb0a77-0c33-4b14-bcd6-e0ab4a2f0c84",
			Namespace: sheetRef.Namespace,
			Group:     sheetRef.Group,
			Resource:  sheetRef.Resource,
			Name:      sheetRef.Name,
			Version:   3,
			Folder:    pointer.Ref("ops"),
			Value:     json.RawMessage(sheetPayload("v2", "overview rev 3")),
		}

		var request *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			if r.Method != http.MethodGet {
				t.Errorf("request is not GET (actual method = %s)", r.Method)
			}
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(stored)
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		actual := try.To(testee.FetchResource(
			context.Background(), sheetRef, resolve.Params{},
		)).OrFatal(t)

		expected := domain.Revision{
			ResourceRef: sheetRef,
			Guid:        stored.Guid,
			Version:     3,
			Folder:      pointer.Ref("ops"),
			Value:       sheetPayload("v2", "overview rev 3"),
		}
		if !actual.Equal(&expected) {
			t.Errorf(
				"revision is not equal (actual, expected) = (%+v, %+v)",
				actual, expected,
			)
		}

		if request == nil {
			t.Fatal("server is not requested")
		}
		if request.URL.Path != "/api/resources/ns-1/sheets.skein.dev/sheets/overview" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
	})

	t.Run("cluster-scoped resources take - as their namespace segment", func(t *testing.T) {
		panelRef := domain.ResourceRef{
			Group: "skein.dev", Resource: "panels", Name: "main",
		}

		var request *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(apires.Detail{
				Guid: "0fa21ecd-35a7-459e-a06d-6b264b716a03",
				Group: panelRef.Group, Resource: panelRef.Resource, Name: panelRef.Name,
				Version: 1,
				Value:   json.RawMessage(`{"apiVersion":"skein.dev/v1"}`),
			})
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		if _, err := testee.FetchResource(
			context.Background(), panelRef, resolve.Params{},
		); err != nil {
			t.Fatal(err)
		}

		if request == nil {
			t.Fatal("server is not requested")
		}
		if request.URL.Path != "/api/resources/-/skein.dev/panels/main" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
	})

	t.Run("when the stored revision is of another schema version, it returns VersionMismatchError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(apires.Detail{
				Guid:      "b0a2e9ce-0716-4384-8215-2c07bb011e73",
				Namespace: sheetRef.Namespace,
				Group:     sheetRef.Group,
				Resource:  sheetRef.Resource,
				Name:      sheetRef.Name,
				Version:   1,
				Value:     json.RawMessage(sheetPayload("v1", "old shape")),
			})
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.FetchResource(
			context.Background(), sheetRef, resolve.Params{Version: "v2"},
		)

		mismatch := new(domerr.VersionMismatchError)
		if !errors.As(err, &mismatch) {
			t.Fatalf("error is not VersionMismatchError: %+v", err)
		}
		if mismatch.Requested != "v2" || mismatch.Actual != "v1" {
			t.Errorf("unexpected mismatch: %+v", mismatch)
		}
	})

	t.Run("when the requested schema version is not registered, it does not reach the server", func(t *testing.T) {
		requested := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested += 1
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.FetchResource(
			context.Background(), sheetRef, resolve.Params{Version: "v9"},
		)
		if !errors.Is(err, domerr.ErrUnknownKindVersion) {
			t.Errorf("error is not ErrUnknownKindVersion: %+v", err)
		}
		if requested != 0 {
			t.Errorf("server should not be requested (requested %d times)", requested)
		}
	})

	t.Run("when server responds 404, the error unwraps to ErrMissing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write(errorBody(t, "not found"))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.FetchResource(context.Background(), sheetRef, resolve.Params{})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("error is not ErrMissing: %+v", err)
		}
	})

	t.Run("when server responds 500, the error unwraps to ErrTransient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(errorBody(t, "database trouble"))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.FetchResource(context.Background(), sheetRef, resolve.Params{})
		if !errors.Is(err, domerr.ErrTransient) {
			t.Errorf("error is not ErrTransient: %+v", err)
		}
	})

	t.Run("when server is not reachable, the error unwraps to ErrTransient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		url := server.URL
		server.Close()

		testee := try.To(krst.NewClient(url+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.FetchResource(context.Background(), sheetRef, resolve.Params{})
		if !errors.Is(err, domerr.ErrTransient) {
			t.Errorf("error is not ErrTransient: %+v", err)
		}
	})

	t.Run("when ctx is cancelled, the context error passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := testee.FetchResource(ctx, sheetRef, resolve.Params{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error is not context.Canceled: %+v", err)
		}
		if errors.Is(err, domerr.ErrTransient) {
			t.Errorf("cancellation should not be transient: %+v", err)
		}
	})

	t.Run("when server responds with a garbled body, the error unwraps to ErrTransient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"guid": 42`))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.FetchResource(context.Background(), sheetRef, resolve.Params{})
		if !errors.Is(err, domerr.ErrTransient) {
			t.Errorf("error is not ErrTransient: %+v", err)
		}
	})
}

func TestAppendRevision(t *testing.T) {
	t.Run("it PUTs the spec and returns the appended revision", func(t *testing.T) {
		var request *http.Request
		var requestBody apires.WriteSpec
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
				t.Errorf("request body is not a write spec: %s", err)
			}

			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(apires.Detail{
				Guid:      "0df54d62-3784-4292-aee9-b082a9b40c54",
				Namespace: sheetRef.Namespace,
				Group:     sheetRef.Group,
				Resource:  sheetRef.Resource,
				Name:      sheetRef.Name,
				Version:   4,
				Folder:    pointer.Ref("ops"),
				Value:     json.RawMessage(sheetPayload("v2", "overview rev 4")),
			})
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		actual := try.To(testee.AppendRevision(context.Background(), domain.RevisionSpec{
			ResourceRef:     sheetRef,
			Folder:          pointer.Ref("ops"),
			Value:           sheetPayload("v2", "overview rev 4"),
			PreviousVersion: 3,
		})).OrFatal(t)

		if actual.Version != 4 || actual.Guid == "" {
			t.Errorf("unexpected revision: %+v", actual)
		}

		if request == nil {
			t.Fatal("server is not requested")
		}
		if request.Method != http.MethodPut {
			t.Errorf("request is not PUT (actual method = %s)", request.Method)
		}
		if request.URL.Path != "/api/resources/ns-1/sheets.skein.dev/sheets/overview" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		if requestBody.PreviousVersion != 3 ||
			!cmp.PEqEq(requestBody.Folder, pointer.Ref("ops")) ||
			string(requestBody.Value) != string(sheetPayload("v2", "overview rev 4")) {
			t.Errorf("unexpected write spec: %+v", requestBody)
		}
	})

	t.Run("when server responds 409, the error unwraps to ErrConflict", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write(errorBody(t, "version conflict"))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.AppendRevision(context.Background(), domain.RevisionSpec{
			ResourceRef:     sheetRef,
			Value:           sheetPayload("v2", "stale update"),
			PreviousVersion: 2,
		})
		if !errors.Is(err, domerr.ErrConflict) {
			t.Errorf("error is not ErrConflict: %+v", err)
		}
	})

	t.Run("when server responds 500, the error unwraps to ErrTransient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(errorBody(t, "database trouble"))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.AppendRevision(context.Background(), domain.RevisionSpec{
			ResourceRef:     sheetRef,
			Value:           sheetPayload("v2", "unlucky update"),
			PreviousVersion: 3,
		})
		if !errors.Is(err, domerr.ErrTransient) {
			t.Errorf("error is not ErrTransient: %+v", err)
		}
	})
}

func TestListHistory(t *testing.T) {
	t.Run("it GETs the history page and returns revisions newest first", func(t *testing.T) {
		stored := []apires.Detail{
			{
				Guid:      "0240ec21-4762-4c0a-bbd9-a4a4b1073d0f",
				Namespace: sheetRef.Namespace,
				Group:     sheetRef.Group,
				Resource:  sheetRef.Resource,
				Name:      sheetRef.Name,
				Version:   4,
				Value:     json.RawMessage(sheetPayload("v2", "overview rev 4")),
			},
			{
				Guid:      "fca56c31-9d72-4e33-a9a1-d2de07f1b72e",
				Namespace: sheetRef.Namespace,
				Group:     sheetRef.Group,
				Resource:  sheetRef.Resource,
				Name:      sheetRef.Name,
				Version:   3,
				Value:     json.RawMessage(sheetPayload("v2", "overview rev 3")),
			},
		}

		var request *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(stored)
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		actual := try.To(testee.ListHistory(
			context.Background(), sheetRef, domain.HistoryPage{Limit: 2, Before: 5},
		)).OrFatal(t)

		if len(actual) != 2 || actual[0].Version != 4 || actual[1].Version != 3 {
			t.Errorf("unexpected revisions: %+v", actual)
		}

		if request == nil {
			t.Fatal("server is not requested")
		}
		if request.URL.Path != "/api/resources/ns-1/sheets.skein.dev/sheets/overview/history" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		query := request.URL.Query()
		if query.Get("limit") != "2" || query.Get("before") != "5" {
			t.Errorf("unexpected query: %s", request.URL.RawQuery)
		}
	})

	t.Run("a zero page sends no query", func(t *testing.T) {
		var request *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			request = r
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("[]"))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		actual := try.To(testee.ListHistory(
			context.Background(), sheetRef, domain.HistoryPage{},
		)).OrFatal(t)

		if len(actual) != 0 {
			t.Errorf("unexpected revisions: %+v", actual)
		}
		if request == nil {
			t.Fatal("server is not requested")
		}
		if request.URL.RawQuery != "" {
			t.Errorf("unexpected query: %s", request.URL.RawQuery)
		}
	})

	t.Run("when server responds 500, the error unwraps to ErrTransient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(errorBody(t, "database trouble"))
		}))
		defer server.Close()

		testee := try.To(krst.NewClient(server.URL+"/api", testRegistry(t))).OrFatal(t)

		_, err := testee.ListHistory(context.Background(), sheetRef, domain.HistoryPage{})
		if !errors.Is(err, domerr.ErrTransient) {
			t.Errorf("error is not ErrTransient: %+v", err)
		}
	})
}
