package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/opst/skein/pkg/domain"
	"github.com/youta-t/flarc"
)

type CommonFlags struct {
	Api      string `flag:"api" help:"URL of the skeind API root."`
	Manifest string `flag:"manifest" help:"path to the kind manifest. A skeind config file works too."`
}

// Flags detects default common flag values.
//
// Envvars SKEIN_API and SKEIN_MANIFEST are read when set.
func Flags() CommonFlags {
	api := os.Getenv("SKEIN_API")
	if api == "" {
		api = "http://localhost:8080/api"
	}
	return CommonFlags{
		Api:      api,
		Manifest: os.Getenv("SKEIN_MANIFEST"),
	}
}

// ParseResourceRef reads a NAMESPACE/GROUP/RESOURCE/NAME argument.
//
// The namespace segment is "-" for cluster-scoped resources.
func ParseResourceRef(s string) (domain.ResourceRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return domain.ResourceRef{}, fmt.Errorf(
			"%w: resource should be NAMESPACE/GROUP/RESOURCE/NAME (got %s)",
			flarc.ErrUsage, s,
		)
	}
	for _, p := range parts {
		if p == "" {
			return domain.ResourceRef{}, fmt.Errorf(
				"%w: resource has an empty segment (got %s). Cluster-scoped resources take - as their namespace",
				flarc.ErrUsage, s,
			)
		}
	}

	namespace := parts[0]
	if namespace == "-" {
		namespace = ""
	}
	return domain.ResourceRef{
		Namespace: namespace,
		Group:     parts[1],
		Resource:  parts[2],
		Name:      parts[3],
	}, nil
}
