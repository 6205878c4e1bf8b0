package cmp_test

import (
	"strings"
	"testing"

	"github.com/opst/skein/pkg/utils/cmp"
)

func TestMapEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b     map[string]int
		expected bool
	}{
		"when maps have same entries, it should be true": {
			a: map[string]int{"a": 1, "b": 2}, b: map[string]int{"b": 2, "a": 1}, expected: true,
		},
		"when a value differs, it should be false": {
			a: map[string]int{"a": 1, "b": 2}, b: map[string]int{"a": 1, "b": 3}, expected: false,
		},
		"when a key is missing, it should be false": {
			a: map[string]int{"a": 1, "b": 2}, b: map[string]int{"a": 1}, expected: false,
		},
		"when both are empty, it should be true": {
			a: map[string]int{}, b: map[string]int{}, expected: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := cmp.MapEq(testcase.a, testcase.b); actual != testcase.expected {
				t.Errorf("MapEq(%v, %v) = %v (expected %v)", testcase.a, testcase.b, actual, testcase.expected)
			}
		})
	}
}

func TestMapEqWith(t *testing.T) {
	t.Run("it compares values with a given rule", func(t *testing.T) {
		a := map[string]string{"x": "HELLO", "y": "WORLD"}
		b := map[string]string{"x": "hello", "y": "world"}

		if !cmp.MapEqWith(a, b, func(p, q string) bool { return strings.EqualFold(p, q) }) {
			t.Error("two maps are not equal, unexpectedly.")
		}
		if cmp.MapEqWith(a, b, func(p, q string) bool { return p == q }) {
			t.Error("two maps are equal, unexpectedly.")
		}
	})
}
