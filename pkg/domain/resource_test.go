package domain_test

import (
	"testing"

	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/utils/pointer"
)

func TestRevision_Equal(t *testing.T) {
	base := func() *domain.Revision {
		return &domain.Revision{
			ResourceRef: domain.ResourceRef{
				Namespace: "default", Group: "sheets.skein.dev",
				Resource: "sheets", Name: "gauge-swatch",
			},
			Guid:    "8be24a4b-2c2c-4bb5-9e76-ed7c23e75f26",
			Version: 3,
			Folder:  pointer.Ref("samples"),
			Value:   []byte(`{"apiVersion":"sheets.skein.dev/v1beta1","spec":{}}`),
		}
	}

	t.Run("it accepts an identical revision", func(t *testing.T) {
		a, b := base(), base()
		if !a.Equal(b) {
			t.Error("revisions should be equal")
		}
	})

	t.Run("it accepts both nil", func(t *testing.T) {
		var a, b *domain.Revision
		if !a.Equal(b) {
			t.Error("nil revisions should be equal")
		}
	})

	t.Run("it rejects nil against non-nil", func(t *testing.T) {
		if base().Equal(nil) {
			t.Error("revision should not equal nil")
		}
	})

	for name, mutate := range map[string]func(*domain.Revision){
		"when guid differs, it should not be equal": func(r *domain.Revision) {
			r.Guid = "0e40599d-9c2a-47b4-8d85-0759ea2378b9"
		},
		"when version differs, it should not be equal": func(r *domain.Revision) {
			r.Version = 4
		},
		"when name differs, it should not be equal": func(r *domain.Revision) {
			r.Name = "tension-swatch"
		},
		"when folder differs, it should not be equal": func(r *domain.Revision) {
			r.Folder = nil
		},
		"when value differs, it should not be equal": func(r *domain.Revision) {
			r.Value = []byte(`{"apiVersion":"sheets.skein.dev/v1beta1","spec":{"rows":1}}`)
		},
	} {
		t.Run(name, func(t *testing.T) {
			a, b := base(), base()
			mutate(b)
			if a.Equal(b) {
				t.Error("revisions should not be equal")
			}
		})
	}
}

func TestResourceRef_String(t *testing.T) {
	ref := domain.ResourceRef{
		Namespace: "default", Group: "sheets.skein.dev",
		Resource: "sheets", Name: "gauge-swatch",
	}
	if ref.String() != "default/sheets.skein.dev/sheets/gauge-swatch" {
		t.Errorf("unexpected string: %s", ref.String())
	}

	clusterScoped := domain.ResourceRef{
		Group: "palettes.skein.dev", Resource: "palettes", Name: "autumn",
	}
	if clusterScoped.String() != "/palettes.skein.dev/palettes/autumn" {
		t.Errorf("unexpected string: %s", clusterScoped.String())
	}
}
