package strings

import "strings"

// `TrimPrefixAll` returns string `s` without provided `prefix`es.
// If `prefix`es are repeated, all of them are removed.
//
// example:
//
//	TrimPrefixAll("///api", "/")  // -> "api" : prefix is trimmed repeatedly
//	TrimPrefixAll("api", "/")     // -> "api" : if no prefix is found, `s` is returned unchanged
func TrimPrefixAll(s, prefix string) string {
	lp := len(prefix)
	if lp == 0 {
		return s
	}
	for strings.HasPrefix(s, prefix) {
		s = s[lp:]
	}
	return s
}

// `TrimSuffixAll` returns string `s` without provided `suffix`es,
// the mirror of `TrimPrefixAll`.
func TrimSuffixAll(s, suffix string) string {
	ls := len(suffix)
	if ls == 0 {
		return s
	}
	for strings.HasSuffix(s, suffix) {
		s = s[:len(s)-ls]
	}
	return s
}

// supply suffix if text has not.
//
// args:
//   - text: target text
//   - suffix: suffix
//
// return:
//
//	text same as input when that has suffix.
//	otherwise, text + suffix.
func SupplySuffix(text, suffix string) string {
	if strings.HasSuffix(text, suffix) {
		return text
	}
	return text + suffix
}
