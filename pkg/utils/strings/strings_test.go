package strings_test

import (
	"testing"

	kstr "github.com/opst/skein/pkg/utils/strings"
)

func TestTrimPrefixAll(t *testing.T) {
	type when struct {
		s      string
		prefix string
	}

	for name, testcase := range map[string]struct {
		when when
		then string
	}{
		"when string has one prefix, it returns s without prefix": {
			when: when{s: "aaabbbccc", prefix: "aaab"},
			then: "bbccc",
		},
		"when string has repeated prefixes, it returns s without all of them": {
			when: when{s: "///api", prefix: "/"},
			then: "api",
		},
		"when string has same pattern with prefix in mid, it trims prefixes only": {
			when: when{s: "aaabbbaaacccaaa", prefix: "a"},
			then: "bbbaaacccaaa",
		},
		"when string has no prefix, it returns s unchanged": {
			when: when{s: "aaabbbccc", prefix: "b"},
			then: "aaabbbccc",
		},
		"when prefix is empty, it returns s unchanged": {
			when: when{s: "aaabbbccc", prefix: ""},
			then: "aaabbbccc",
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := kstr.TrimPrefixAll(testcase.when.s, testcase.when.prefix)
			if actual != testcase.then {
				t.Errorf("wrong result: (actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}

func TestTrimSuffixAll(t *testing.T) {
	type when struct {
		s      string
		suffix string
	}

	for name, testcase := range map[string]struct {
		when when
		then string
	}{
		"when string has one suffix, it returns s without suffix": {
			when: when{s: "aaabbbccc", suffix: "bccc"},
			then: "aaabb",
		},
		"when string has repeated suffixes, it returns s without all of them": {
			when: when{s: "http://api.example/api///", suffix: "/"},
			then: "http://api.example/api",
		},
		"when string has same pattern with suffix in mid, it trims suffixes only": {
			when: when{s: "aaacccaaabbbaaa", suffix: "a"},
			then: "aaacccaaabbb",
		},
		"when string has no suffix, it returns s unchanged": {
			when: when{s: "aaabbbccc", suffix: "b"},
			then: "aaabbbccc",
		},
		"when suffix is empty, it returns s unchanged": {
			when: when{s: "aaabbbccc", suffix: ""},
			then: "aaabbbccc",
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := kstr.TrimSuffixAll(testcase.when.s, testcase.when.suffix)
			if actual != testcase.then {
				t.Errorf("wrong result: (actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}

func TestSupplySuffix(t *testing.T) {
	type when struct {
		text   string
		suffix string
	}
	type testcase struct {
		when when
		then string
	}
	for name, testcase := range map[string]testcase{
		"when text does not have suffix, it returns text + suffix": {
			when: when{text: "foobar", suffix: "baz"},
			then: "foobarbaz",
		},
		"when text has suffix, it returns as input": {
			when: when{text: "foobar", suffix: "ar"},
			then: "foobar",
		},
		"when text is empty, it returns suffix": {
			when: when{text: "", suffix: "foo"},
			then: "foo",
		},
		"when suffix is empty, it returns input text": {
			when: when{text: "bar", suffix: ""},
			then: "bar",
		},
		"when text and suffix are empty, it returns empty": {
			when: when{text: "", suffix: ""},
			then: "",
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := kstr.SupplySuffix(testcase.when.text, testcase.when.suffix)
			if actual != testcase.then {
				t.Errorf(
					`unexpected result: SupplySuffix("%s", "%s") --> %v`,
					testcase.when.text, testcase.when.suffix, actual,
				)
			}
		})
	}
}
