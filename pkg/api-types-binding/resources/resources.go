package resources

import (
	"encoding/json"

	apires "github.com/opst/skein/pkg/api/types/resources"
	"github.com/opst/skein/pkg/domain"
)

func ComposeDetail(r domain.Revision) apires.Detail {
	return apires.Detail{
		Guid:      r.Guid,
		Namespace: r.Namespace,
		Group:     r.Group,
		Resource:  r.Resource,
		Name:      r.Name,
		Version:   r.Version,
		Folder:    r.Folder,
		Value:     json.RawMessage(r.Value),
	}
}
