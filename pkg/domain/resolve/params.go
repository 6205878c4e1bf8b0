package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opst/skein/pkg/utils/cmp"
)

// Params are the content-relevant parameters of a load.
//
// Two loads with Equal Params materialize the same scene from the same
// stored revision, so Reload skips fetching when Params have not changed.
type Params struct {
	// Version is the preferred schema version label, like "v2".
	// Empty means the storage version of the kind.
	Version string

	// Vars are variable bindings applied to the resource content.
	Vars map[string]string

	// Filters narrow the scope of the load. Order matters.
	Filters []string
}

// Equal compares by value.
func (p Params) Equal(o Params) bool {
	return p.Version == o.Version &&
		cmp.MapEq(p.Vars, o.Vars) &&
		cmp.SliceEq(p.Filters, o.Filters)
}

// String renders a stable fingerprint of the parameters, used as a request
// collapsing key.
func (p Params) String() string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "version=%s", p.Version)

	keys := make([]string, 0, len(p.Vars))
	for k := range p.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "&var.%s=%s", k, p.Vars[k])
	}

	for _, f := range p.Filters {
		fmt.Fprintf(sb, "&filter=%s", f)
	}
	return sb.String()
}
