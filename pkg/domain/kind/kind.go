// Package kind holds the schema registry: which kinds exist, which schema
// versions of each kind can be served, and how payloads of each version are
// encoded and decoded.
package kind

import (
	"fmt"

	domerr "github.com/opst/skein/pkg/domain/errors"
)

// Scope tells whether resources of a kind live in a namespace.
type Scope string

const (
	ScopeNamespaced Scope = "Namespaced"
	ScopeCluster    Scope = "Cluster"
)

// Object is a decoded resource payload. Its concrete type is up to the codec
// which produced it.
type Object any

// Version is one servable schema version of a kind.
type Version struct {
	// Group is the API group of the kind, like "sheets.skein.dev".
	Group string

	// Kind is the kind name, like "Sheet".
	Kind string

	// Version is the schema version label, like "v2".
	Version string

	// Served reports whether this version is offered on the API.
	// Unserved versions are still resolvable, so that payloads stored
	// under them can be decoded.
	Served bool

	// Codec translates payloads of this version.
	Codec Codec
}

// APIVersion is the envelope form of the version, like "sheets.skein.dev/v2".
func (v Version) APIVersion() string {
	return v.Group + "/" + v.Version
}

// Kind declares a kind and its schema versions.
type Kind struct {
	// Name of the kind, like "Sheet".
	Name string

	// Group is the API group, like "sheets.skein.dev".
	Group string

	// Scope tells whether resources of this kind live in a namespace.
	Scope Scope

	// Resource is the plural resource name appearing in API paths,
	// like "sheets".
	Resource string

	// Versions are the schema versions of this kind, most preferred first.
	//
	// Group and Kind of each entry may be left empty. They are filled in
	// from this declaration when the registry is built.
	Versions []Version

	// Storage is the label of the version payloads are stored under.
	// Empty means the first declared version.
	Storage string
}

// UnknownVersion reports a lookup of a kind or a version nobody registered.
type UnknownVersion struct {
	Group string

	// Kind is the kind name looked up. Empty for lookups by resource name.
	Kind string

	// Resource is the plural resource name looked up, for lookups by
	// resource name.
	Resource string

	// Version is the version label looked up. Empty when the kind itself
	// is unknown.
	Version string
}

var _ error = UnknownVersion{}

func (u UnknownVersion) Error() string {
	if u.Resource != "" {
		return fmt.Sprintf("no kind serves resource %s in group %s", u.Resource, u.Group)
	}
	if u.Version == "" {
		return fmt.Sprintf("no kind %s is registered in group %s", u.Kind, u.Group)
	}
	return fmt.Sprintf("version %s of kind %s/%s is not registered", u.Version, u.Group, u.Kind)
}

func (u UnknownVersion) Unwrap() error {
	return domerr.ErrUnknownKindVersion
}

type gk struct{ group, kind string }
type gr struct{ group, resource string }
type gkv struct{ group, kind, version string }

// Registry maps (kind, version) pairs to their schema versions and codecs.
//
// A Registry is built once by New and never changes afterwards, so it can be
// shared between goroutines without locks.
type Registry struct {
	decls     []Kind
	kinds     map[gk]Kind
	resources map[gr]Kind
	versions  map[gkv]Version
	storages  map[gk]Version
}

// New builds a Registry from kind declarations.
//
// Declarations are validated up front: a kind without versions, a duplicate
// (kind, version) pair, a version without a codec, or a storage label not
// among the declared versions make New fail.
func New(decls ...Kind) (*Registry, error) {
	r := &Registry{
		decls:     make([]Kind, 0, len(decls)),
		kinds:     map[gk]Kind{},
		resources: map[gr]Kind{},
		versions:  map[gkv]Version{},
		storages:  map[gk]Version{},
	}

	for _, decl := range decls {
		if decl.Name == "" || decl.Group == "" || decl.Resource == "" {
			return nil, fmt.Errorf(
				"kind declaration needs name, group and resource: %+v", decl,
			)
		}
		if len(decl.Versions) == 0 {
			return nil, fmt.Errorf(
				"kind %s/%s declares no versions", decl.Group, decl.Name,
			)
		}

		key := gk{decl.Group, decl.Name}
		if _, ok := r.kinds[key]; ok {
			return nil, fmt.Errorf(
				"kind %s/%s is declared twice", decl.Group, decl.Name,
			)
		}
		rkey := gr{decl.Group, decl.Resource}
		if _, ok := r.resources[rkey]; ok {
			return nil, fmt.Errorf(
				"resource %s in group %s is declared twice", decl.Resource, decl.Group,
			)
		}

		versions := make([]Version, 0, len(decl.Versions))
		for _, v := range decl.Versions {
			if v.Group == "" {
				v.Group = decl.Group
			}
			if v.Kind == "" {
				v.Kind = decl.Name
			}
			if v.Group != decl.Group || v.Kind != decl.Name {
				return nil, fmt.Errorf(
					"version %s does not belong to kind %s/%s",
					v.APIVersion(), decl.Group, decl.Name,
				)
			}
			if v.Version == "" {
				return nil, fmt.Errorf(
					"kind %s/%s declares a version without a label",
					decl.Group, decl.Name,
				)
			}
			if v.Codec == nil {
				return nil, fmt.Errorf(
					"version %s of kind %s/%s has no codec",
					v.Version, decl.Group, decl.Name,
				)
			}

			vkey := gkv{decl.Group, decl.Name, v.Version}
			if _, ok := r.versions[vkey]; ok {
				return nil, fmt.Errorf(
					"version %s of kind %s/%s is declared twice",
					v.Version, decl.Group, decl.Name,
				)
			}
			r.versions[vkey] = v
			versions = append(versions, v)
		}
		decl.Versions = versions
		if decl.Storage == "" {
			decl.Storage = versions[0].Version
		}

		storage, ok := r.versions[gkv{decl.Group, decl.Name, decl.Storage}]
		if !ok {
			return nil, fmt.Errorf(
				"storage version %s of kind %s/%s is not among its versions",
				decl.Storage, decl.Group, decl.Name,
			)
		}

		r.decls = append(r.decls, decl)
		r.kinds[key] = decl
		r.resources[rkey] = decl
		r.storages[key] = storage
	}

	return r, nil
}

// Resolve looks up the schema version of a kind by label.
//
// An empty label resolves to the storage version of the kind.
//
// Return
//
// - Version
//
// - error: wraps domerr.ErrUnknownKindVersion when the kind or the label
// is not registered.
func (r *Registry) Resolve(group, kindName, label string) (Version, error) {
	key := gk{group, kindName}
	if _, ok := r.kinds[key]; !ok {
		return Version{}, UnknownVersion{Group: group, Kind: kindName, Version: label}
	}
	if label == "" {
		return r.storages[key], nil
	}
	v, ok := r.versions[gkv{group, kindName, label}]
	if !ok {
		return Version{}, UnknownVersion{Group: group, Kind: kindName, Version: label}
	}
	return v, nil
}

// Storage returns the storage version of a kind.
func (r *Registry) Storage(group, kindName string) (Version, error) {
	return r.Resolve(group, kindName, "")
}

// KindFor looks up the kind serving a plural resource name, as it appears
// in API paths.
func (r *Registry) KindFor(group, resource string) (Kind, error) {
	k, ok := r.resources[gr{group, resource}]
	if !ok {
		return Kind{}, UnknownVersion{Group: group, Resource: resource}
	}
	return k, nil
}

// Kinds returns the registered kind declarations, in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.decls...)
}
