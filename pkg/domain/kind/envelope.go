package kind

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PeekAPIVersion reads the apiVersion envelope field of a payload without
// decoding the rest of it.
//
// Return
//
// - string: apiVersion, like "sheets.skein.dev/v2"
//
// - error: a *DecodeError when the payload is not a JSON object or has no
// apiVersion.
func PeekAPIVersion(value []byte) (string, error) {
	envelope := struct {
		APIVersion string `json:"apiVersion"`
	}{}
	if err := json.Unmarshal(value, &envelope); err != nil {
		return "", &DecodeError{Reason: "payload is not a JSON object", Cause: err}
	}
	if envelope.APIVersion == "" {
		return "", &DecodeError{Reason: "payload has no apiVersion"}
	}
	return envelope.APIVersion, nil
}

// ParseAPIVersion splits an apiVersion like "sheets.skein.dev/v2" into the
// group and the version label.
func ParseAPIVersion(apiVersion string) (group string, version string, err error) {
	group, version, ok := strings.Cut(apiVersion, "/")
	if !ok || group == "" || version == "" || strings.Contains(version, "/") {
		return "", "", &DecodeError{
			Reason: fmt.Sprintf("apiVersion %q is not in group/version form", apiVersion),
		}
	}
	return group, version, nil
}
