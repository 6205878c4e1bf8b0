package server_test

import (
	"errors"
	"testing"
	"time"

	sconf "github.com/opst/skein/pkg/configs/server"
	domerr "github.com/opst/skein/pkg/domain/errors"
	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/utils/try"
)

func TestConfigMarshall(t *testing.T) {
	t.Run("it loads config from yaml: ", func(t *testing.T) {
		serverYml := []byte(`
port: "12345"
database: postgres://skein-test-pgdb-svc:32555/skein
rawCacheTTL: 750ms
kinds:
  - name: Sheet
    group: sheets.skein.dev
    resource: sheets
    storage: v2
    versions:
      - label: v2
      - label: v1
        served: false
  - name: Panel
    group: panels.skein.dev
    resource: panels
    scope: Cluster
    versions:
      - label: v1
`)
		result, err := sconf.Unmarshal(serverYml)

		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}

		t.Run(".port", func(t *testing.T) {
			actual := result.Port()
			expected := "12345"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".database", func(t *testing.T) {
			actual := result.Database()
			expected := "postgres://skein-test-pgdb-svc:32555/skein"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".rawCacheTTL", func(t *testing.T) {
			actual := result.RawCacheTTL()
			expected := 750 * time.Millisecond
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%v, %v)", expected, actual)
			}
		})

		t.Run(".kinds", func(t *testing.T) {
			kinds := result.Kinds()
			if len(kinds) != 2 {
				t.Fatalf("unexpected number of kinds: %d", len(kinds))
			}

			sheet := kinds[0]
			if sheet.Name != "Sheet" || sheet.Group != "sheets.skein.dev" ||
				sheet.Resource != "sheets" || sheet.Storage != "v2" {
				t.Errorf("unexpected kind: %+v", sheet)
			}
			if sheet.Scope != kind.ScopeNamespaced {
				t.Errorf("scope should default to Namespaced: %s", sheet.Scope)
			}
			if len(sheet.Versions) != 2 {
				t.Fatalf("unexpected number of versions: %d", len(sheet.Versions))
			}
			if v := sheet.Versions[0]; v.Version != "v2" || !v.Served || v.Codec == nil {
				t.Errorf("unexpected version: %+v", v)
			}
			if v := sheet.Versions[1]; v.Version != "v1" || v.Served {
				t.Errorf("served: false should be kept: %+v", v)
			}

			panel := kinds[1]
			if panel.Scope != kind.ScopeCluster {
				t.Errorf("scope should be Cluster: %s", panel.Scope)
			}
			if panel.Storage != "" {
				t.Errorf("storage should stay empty when omitted: %s", panel.Storage)
			}
		})

		t.Run("sealed kinds can be registered", func(t *testing.T) {
			registry := try.To(kind.New(result.Kinds()...)).OrFatal(t)

			v := try.To(registry.Resolve("sheets.skein.dev", "Sheet", "")).OrFatal(t)
			if v.APIVersion() != "sheets.skein.dev/v2" {
				t.Errorf("storage version should be v2: %s", v.APIVersion())
			}

			if _, err := registry.Resolve("sheets.skein.dev", "Sheet", "v9"); !errors.Is(err, domerr.ErrUnknownKindVersion) {
				t.Errorf("unknown version should be rejected: %v", err)
			}
		})
	})

	t.Run("it can be created from a config file", func(t *testing.T) {
		result, err := sconf.LoadServerConfig("./testdata/config.yaml")

		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}

		if result.Port() != "8080" {
			t.Errorf("unmatch port:%s, expected:%s", result.Port(), "8080")
		}
		expectedURI := "postgres://skein-test-pgdb-svc:32555/skein"
		if result.Database() != expectedURI {
			t.Errorf("unmatch database:%s, expected:%s", result.Database(), expectedURI)
		}
		if len(result.Kinds()) != 2 {
			t.Errorf("unexpected number of kinds: %d", len(result.Kinds()))
		}
	})

	t.Run("it fills defaults for omitted fields: ", func(t *testing.T) {
		serverYml := []byte(`
database: postgres://skein-pgdb-svc:5432/skein
kinds:
  - name: Sheet
    group: sheets.skein.dev
    resource: sheets
    versions:
      - label: v1
`)
		result, err := sconf.Unmarshal(serverYml)

		if err != nil {
			t.Fatalf("failed to parse config.: %v", err)
		}

		t.Run(".port", func(t *testing.T) {
			actual := result.Port()
			expected := "8080"
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%s, %s)", expected, actual)
			}
		})

		t.Run(".rawCacheTTL", func(t *testing.T) {
			actual := result.RawCacheTTL()
			expected := 500 * time.Millisecond
			if actual != expected {
				t.Errorf("mismatch. (expected, actual) = (%v, %v)", expected, actual)
			}
		})
	})
}
