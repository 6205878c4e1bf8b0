package resolve_test

import (
	"testing"

	"github.com/opst/skein/pkg/domain/resolve"
)

func TestParams_Equal(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b  resolve.Params
		equal bool
	}{
		"empty params are equal": {
			a: resolve.Params{}, b: resolve.Params{}, equal: true,
		},
		"nil and empty vars are equal": {
			a:     resolve.Params{Vars: nil},
			b:     resolve.Params{Vars: map[string]string{}},
			equal: true,
		},
		"same values in different instances are equal": {
			a: resolve.Params{
				Version: "v2",
				Vars:    map[string]string{"env": "prod", "region": "eu"},
				Filters: []string{"team:infra"},
			},
			b: resolve.Params{
				Version: "v2",
				Vars:    map[string]string{"region": "eu", "env": "prod"},
				Filters: []string{"team:infra"},
			},
			equal: true,
		},
		"different versions differ": {
			a:     resolve.Params{Version: "v1"},
			b:     resolve.Params{Version: "v2"},
			equal: false,
		},
		"different var values differ": {
			a:     resolve.Params{Vars: map[string]string{"env": "prod"}},
			b:     resolve.Params{Vars: map[string]string{"env": "dev"}},
			equal: false,
		},
		"extra vars differ": {
			a:     resolve.Params{Vars: map[string]string{"env": "prod"}},
			b:     resolve.Params{Vars: map[string]string{"env": "prod", "region": "eu"}},
			equal: false,
		},
		"filter order matters": {
			a:     resolve.Params{Filters: []string{"a", "b"}},
			b:     resolve.Params{Filters: []string{"b", "a"}},
			equal: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := testcase.a.Equal(testcase.b); actual != testcase.equal {
				t.Errorf(
					"Equal is wrong: (actual, expected) = (%v, %v)",
					actual, testcase.equal,
				)
			}
			if actual := testcase.b.Equal(testcase.a); actual != testcase.equal {
				t.Errorf(
					"Equal is not symmetric: (actual, expected) = (%v, %v)",
					actual, testcase.equal,
				)
			}
		})
	}
}

func TestParams_String(t *testing.T) {
	t.Run("the fingerprint is stable across var orderings", func(t *testing.T) {
		a := resolve.Params{
			Version: "v2",
			Vars:    map[string]string{"b": "2", "a": "1", "c": "3"},
			Filters: []string{"x"},
		}
		b := resolve.Params{
			Version: "v2",
			Vars:    map[string]string{"c": "3", "a": "1", "b": "2"},
			Filters: []string{"x"},
		}
		if a.String() != b.String() {
			t.Errorf("fingerprints differ: (%s, %s)", a, b)
		}
	})

	t.Run("different params have different fingerprints", func(t *testing.T) {
		a := resolve.Params{Version: "v2", Vars: map[string]string{"env": "prod"}}
		b := resolve.Params{Version: "v2", Vars: map[string]string{"env": "dev"}}
		if a.String() == b.String() {
			t.Errorf("fingerprints collide: %s", a)
		}
	})
}
