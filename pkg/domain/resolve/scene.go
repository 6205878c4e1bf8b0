package resolve

import (
	"errors"

	"github.com/opst/skein/pkg/domain"
	"github.com/opst/skein/pkg/domain/kind"
)

// Scene is a materialized resource: one revision decoded through the schema
// version it is bound to.
//
// Scenes returned by Manager.Fetch and Manager.FromCache are shared with the
// cache. Take a Copy (or Manager.Snapshot) before mutating Object.
type Scene struct {
	// Ref names the resource.
	Ref domain.ResourceRef

	// Guid of the revision this scene was decoded from.
	// Empty for transient scenes.
	Guid string

	// Version is the stored resource version. Zero for transient scenes.
	Version int64

	// Folder groups resources for display. nil means not filed.
	Folder *string

	// Bound is the schema version whose codec decoded this scene and will
	// encode it on Save.
	Bound kind.Version

	// Object is the decoded payload.
	Object kind.Object

	value []byte
}

// NewTransientScene makes a scene for a resource nobody has stored yet.
//
// Transient scenes stay out of the caches. Saving one appends the first
// revision of the resource.
func NewTransientScene(ref domain.ResourceRef, bound kind.Version, obj kind.Object) *Scene {
	return &Scene{Ref: ref, Bound: bound, Object: obj}
}

// Transient reports whether the scene has never been stored.
func (s *Scene) Transient() bool {
	return s.Version == 0
}

// Payload returns a copy of the stored payload the scene was decoded from.
// Empty for transient scenes.
func (s *Scene) Payload() []byte {
	return append([]byte(nil), s.value...)
}

// Copy returns a detached deep copy of the scene. The copy can be mutated
// without affecting the original or the caches, and can be passed to
// Manager.Save afterwards.
//
// The copy is made by running the payload through the bound codec again, so
// Copy can fail the way Decode can.
func (s *Scene) Copy() (*Scene, error) {
	if s.Bound.Codec == nil {
		return nil, errors.New("scene is not bound to a schema version")
	}

	value := s.value
	if len(value) == 0 {
		encoded, err := s.Bound.Codec.Encode(s.Object)
		if err != nil {
			return nil, err
		}
		value = encoded
	}
	obj, err := s.Bound.Codec.Decode(value)
	if err != nil {
		return nil, err
	}

	copied := &Scene{
		Ref:     s.Ref,
		Guid:    s.Guid,
		Version: s.Version,
		Bound:   s.Bound,
		Object:  obj,
	}
	if s.Folder != nil {
		folder := *s.Folder
		copied.Folder = &folder
	}
	if !s.Transient() {
		copied.value = append([]byte(nil), s.value...)
	}
	return copied, nil
}
