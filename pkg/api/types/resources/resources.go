package resources

import (
	"bytes"
	"encoding/json"

	"github.com/opst/skein/pkg/utils/cmp"
)

// Detail is a stored revision of a resource as it goes over the wire.
type Detail struct {
	Guid      string  `json:"guid"`
	Namespace string  `json:"namespace"`
	Group     string  `json:"group"`
	Resource  string  `json:"resource"`
	Name      string  `json:"name"`
	Version   int64   `json:"version"`
	Folder    *string `json:"folder,omitempty"`

	// Value is the stored envelope, byte for byte.
	Value json.RawMessage `json:"value"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Guid == o.Guid &&
		d.Namespace == o.Namespace &&
		d.Group == o.Group &&
		d.Resource == o.Resource &&
		d.Name == o.Name &&
		d.Version == o.Version &&
		cmp.PEqEq(d.Folder, o.Folder) &&
		bytes.Equal(d.Value, o.Value)
}

// WriteSpec is the request body for putting a new revision.
type WriteSpec struct {
	Folder *string `json:"folder,omitempty"`

	// PreviousVersion is the version this write is based on.
	// Zero claims that the resource does not exist yet.
	PreviousVersion int64 `json:"previousVersion"`

	Value json.RawMessage `json:"value"`
}

func (s WriteSpec) Equal(o WriteSpec) bool {
	return s.PreviousVersion == o.PreviousVersion &&
		cmp.PEqEq(s.Folder, o.Folder) &&
		bytes.Equal(s.Value, o.Value)
}
